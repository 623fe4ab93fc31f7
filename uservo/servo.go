package uservo

import (
	"context"
	"time"
)

// Servo binds a Controller to a single servo ID for callers that drive one
// device at a time.
type Servo struct {
	ctl Controller
	id  int
}

// NewServo creates a Servo bound to the given ID.
func NewServo(ctl Controller, id int) *Servo {
	return &Servo{ctl: ctl, id: id}
}

// ID returns the servo's bus ID.
func (s *Servo) ID() int {
	return s.id
}

// Ping checks whether this servo responds on the bus.
func (s *Servo) Ping(ctx context.Context) (bool, error) {
	return s.ctl.Ping(ctx, s.id)
}

// SetAngle commands a move to the target angle.
func (s *Servo) SetAngle(ctx context.Context, degrees float64) error {
	return s.ctl.SetAngle(ctx, s.id, degrees)
}

// SetAngleWithDuration commands a move that should take the given duration.
func (s *Servo) SetAngleWithDuration(ctx context.Context, degrees float64, duration time.Duration) error {
	return s.ctl.SetAngleWithDuration(ctx, s.id, degrees, duration)
}

// SetAngleWithVelocity commands a move at the given speed with ramp times.
func (s *Servo) SetAngleWithVelocity(ctx context.Context, degrees, degPerSec float64, accel, decel time.Duration) error {
	return s.ctl.SetAngleWithVelocity(ctx, s.id, degrees, degPerSec, accel, decel)
}

// Angle reads the current angle in degrees.
func (s *Servo) Angle(ctx context.Context) (float64, error) {
	return s.ctl.Angle(ctx, s.id)
}

// Voltage reads the supply voltage in volts.
func (s *Servo) Voltage(ctx context.Context) (float64, error) {
	return s.ctl.Voltage(ctx, s.id)
}

// Current reads the motor current in amps.
func (s *Servo) Current(ctx context.Context) (float64, error) {
	return s.ctl.Current(ctx, s.id)
}

// Power reads the power draw in watts.
func (s *Servo) Power(ctx context.Context) (float64, error) {
	return s.ctl.Power(ctx, s.id)
}

// Temperature reads the internal temperature in °C.
func (s *Servo) Temperature(ctx context.Context) (float64, error) {
	return s.ctl.Temperature(ctx, s.id)
}

// Status reads the condition bitmask.
func (s *Servo) Status(ctx context.Context) (Status, error) {
	return s.ctl.Status(ctx, s.id)
}

// Telemetry reads an aggregate snapshot of all telemetry fields.
func (s *Servo) Telemetry(ctx context.Context) (Telemetry, error) {
	return s.ctl.Telemetry(ctx, s.id)
}

// Relax puts the servo into fully relaxed damping mode.
func (s *Servo) Relax(ctx context.Context) error {
	return s.ctl.SetDamping(ctx, s.id, DampingRelaxed)
}

// SetDamping puts the servo into damping mode with the given holding power.
func (s *Servo) SetDamping(ctx context.Context, power int) error {
	return s.ctl.SetDamping(ctx, s.id, power)
}
