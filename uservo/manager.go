package uservo

import (
	"context"
	"fmt"
	"time"
)

// Controller is the capability surface of a servo bus. Callers should depend
// on this interface rather than the concrete Manager so that test doubles
// can stand in for real hardware.
type Controller interface {
	Ping(ctx context.Context, id int) (bool, error)

	SetAngle(ctx context.Context, id int, degrees float64) error
	SetAngleWithDuration(ctx context.Context, id int, degrees float64, duration time.Duration) error
	SetAngleWithVelocity(ctx context.Context, id int, degrees, degPerSec float64, accel, decel time.Duration) error
	SetMultiturnAngle(ctx context.Context, id int, degrees float64) error
	SetMultiturnAngleWithDuration(ctx context.Context, id int, degrees float64, duration time.Duration) error
	SetMultiturnAngleWithVelocity(ctx context.Context, id int, degrees, degPerSec float64, accel, decel time.Duration) error

	Angle(ctx context.Context, id int) (float64, error)
	Voltage(ctx context.Context, id int) (float64, error)
	Current(ctx context.Context, id int) (float64, error)
	Power(ctx context.Context, id int) (float64, error)
	Temperature(ctx context.Context, id int) (float64, error)
	Status(ctx context.Context, id int) (Status, error)
	Telemetry(ctx context.Context, id int) (Telemetry, error)

	SetDamping(ctx context.Context, id int, power int) error
	ResetUserData(ctx context.Context, id int) error
	ReadMemory(ctx context.Context, id int, address byte, length int) ([]byte, error)
	WriteMemory(ctx context.Context, id int, address byte, data []byte) error
}

// Manager implements Controller over one Session. It keeps no state of its
// own; every operation is a single transaction.
type Manager struct {
	session *Session
}

var _ Controller = (*Manager)(nil)

// NewManager creates a Manager over the given session.
func NewManager(session *Session) *Manager {
	return &Manager{session: session}
}

// Session returns the underlying transport session.
func (m *Manager) Session() *Session {
	return m.session
}

func validateID(id int) error {
	if id < 0 || id > MaxServoID {
		return fmt.Errorf("%w: %d (valid range: 0-%d)", ErrInvalidID, id, MaxServoID)
	}
	return nil
}

// Ping checks whether the servo responds on the bus. A timeout or a
// malformed reply both report absence; only transport-level failures (closed
// session, write error) surface as errors. Absence and a transient glitch
// are indistinguishable here; callers wanting to tell them apart retry.
func (m *Manager) Ping(ctx context.Context, id int) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	_, err := m.session.Execute(ctx, CmdPing, []byte{byte(id)})
	if err == nil {
		return true, nil
	}
	if IsTimeout(err) || IsMalformed(err) {
		return false, nil
	}
	return false, &CommError{Op: "ping", ID: id, Err: err}
}

// Angle movement commands. The set-angle payload comes in three shapes: the
// minimal {id, angle}, timed {id, angle, duration}, and profiled
// {id, angle, velocity, accel, decel}. Multiturn addressing uses a separate
// command code with the same shapes.

// SetAngle commands a move to the target angle with the servo's default
// motion profile.
func (m *Manager) SetAngle(ctx context.Context, id int, degrees float64) error {
	return m.setAngle(ctx, CmdSetAngle, "set angle", id, minimalAnglePayload(id, degrees))
}

// SetAngleWithDuration commands a move that should take the given duration.
func (m *Manager) SetAngleWithDuration(ctx context.Context, id int, degrees float64, duration time.Duration) error {
	return m.setAngle(ctx, CmdSetAngle, "set angle", id, timedAnglePayload(id, degrees, duration))
}

// SetAngleWithVelocity commands a move at the given speed with acceleration
// and deceleration ramp times.
func (m *Manager) SetAngleWithVelocity(ctx context.Context, id int, degrees, degPerSec float64, accel, decel time.Duration) error {
	return m.setAngle(ctx, CmdSetAngle, "set angle", id, profiledAnglePayload(id, degrees, degPerSec, accel, decel))
}

// SetMultiturnAngle is SetAngle in multiturn addressing mode, where angles
// are not wrapped to a single revolution.
func (m *Manager) SetMultiturnAngle(ctx context.Context, id int, degrees float64) error {
	return m.setAngle(ctx, CmdSetMultiturn, "set multiturn angle", id, minimalAnglePayload(id, degrees))
}

// SetMultiturnAngleWithDuration is SetAngleWithDuration in multiturn mode.
func (m *Manager) SetMultiturnAngleWithDuration(ctx context.Context, id int, degrees float64, duration time.Duration) error {
	return m.setAngle(ctx, CmdSetMultiturn, "set multiturn angle", id, timedAnglePayload(id, degrees, duration))
}

// SetMultiturnAngleWithVelocity is SetAngleWithVelocity in multiturn mode.
func (m *Manager) SetMultiturnAngleWithVelocity(ctx context.Context, id int, degrees, degPerSec float64, accel, decel time.Duration) error {
	return m.setAngle(ctx, CmdSetMultiturn, "set multiturn angle", id, profiledAnglePayload(id, degrees, degPerSec, accel, decel))
}

func (m *Manager) setAngle(ctx context.Context, cmd byte, op string, id int, payload []byte) error {
	if err := validateID(id); err != nil {
		return err
	}

	if _, err := m.session.Execute(ctx, cmd, payload); err != nil {
		return &CommError{Op: op, ID: id, Err: err}
	}
	return nil
}

func minimalAnglePayload(id int, degrees float64) []byte {
	buf := make([]byte, 3)
	buf[0] = byte(id)
	putInt16(buf[1:], EncodeAngle(degrees))
	return buf
}

func timedAnglePayload(id int, degrees float64, duration time.Duration) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(id)
	putInt16(buf[1:], EncodeAngle(degrees))
	putUint16(buf[3:], uint16(duration.Milliseconds()))
	return buf
}

func profiledAnglePayload(id int, degrees, degPerSec float64, accel, decel time.Duration) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(id)
	putInt16(buf[1:], EncodeAngle(degrees))
	putInt16(buf[3:], EncodeVelocity(degPerSec))
	putUint16(buf[5:], uint16(accel.Milliseconds()))
	putUint16(buf[7:], uint16(decel.Milliseconds()))
	return buf
}

// Telemetry queries.

// Angle reads the current angle in degrees.
func (m *Manager) Angle(ctx context.Context, id int) (float64, error) {
	payload, err := m.query(ctx, CmdQueryAngle, "query angle", id, 2)
	if err != nil {
		return 0, err
	}
	return DecodeAngle(getInt16(payload)), nil
}

// Voltage reads the supply voltage in volts.
func (m *Manager) Voltage(ctx context.Context, id int) (float64, error) {
	payload, err := m.query(ctx, CmdQueryVoltage, "query voltage", id, 2)
	if err != nil {
		return 0, err
	}
	return DecodeVoltage(getUint16(payload)), nil
}

// Current reads the motor current in amps.
func (m *Manager) Current(ctx context.Context, id int) (float64, error) {
	payload, err := m.query(ctx, CmdQueryCurrent, "query current", id, 2)
	if err != nil {
		return 0, err
	}
	return DecodeCurrent(getInt16(payload)), nil
}

// Power reads the electrical power draw in watts.
func (m *Manager) Power(ctx context.Context, id int) (float64, error) {
	payload, err := m.query(ctx, CmdQueryPower, "query power", id, 2)
	if err != nil {
		return 0, err
	}
	return DecodePower(getUint16(payload)), nil
}

// Temperature reads the internal temperature in °C.
func (m *Manager) Temperature(ctx context.Context, id int) (float64, error) {
	payload, err := m.query(ctx, CmdQueryTemperature, "query temperature", id, 1)
	if err != nil {
		return 0, err
	}
	return DecodeTemperature(int8(payload[0])), nil
}

// Status reads the condition bitmask.
func (m *Manager) Status(ctx context.Context, id int) (Status, error) {
	payload, err := m.query(ctx, CmdQueryStatus, "query status", id, 1)
	if err != nil {
		return 0, err
	}
	return Status(payload[0]), nil
}

func (m *Manager) query(ctx context.Context, cmd byte, op string, id int, minLen int) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	payload, err := m.session.Execute(ctx, cmd, []byte{byte(id)})
	if err != nil {
		return nil, &CommError{Op: op, ID: id, Err: err}
	}
	if len(payload) < minLen {
		return nil, &CommError{Op: op, ID: id,
			Err: fmt.Errorf("%w: payload %d bytes, need %d", ErrLengthMismatch, len(payload), minLen)}
	}
	return payload, nil
}

// Mode and memory operations.

// Damping power bounds in milliwatts.
const (
	DampingRelaxed    = 0
	MaxDampingPowerMW = 1000
)

// SetDamping puts the servo into damping mode with the given holding power
// in milliwatts: 0 is fully relaxed, 1000 is maximum holding torque.
func (m *Manager) SetDamping(ctx context.Context, id int, power int) error {
	if err := validateID(id); err != nil {
		return err
	}
	if power < DampingRelaxed || power > MaxDampingPowerMW {
		return fmt.Errorf("damping power %d out of range 0-%d", power, MaxDampingPowerMW)
	}

	buf := make([]byte, 3)
	buf[0] = byte(id)
	putUint16(buf[1:], uint16(power))

	if _, err := m.session.Execute(ctx, CmdSetDamping, buf); err != nil {
		return &CommError{Op: "set damping", ID: id, Err: err}
	}
	return nil
}

// ResetUserData restores the servo's user memory region to factory values.
func (m *Manager) ResetUserData(ctx context.Context, id int) error {
	if err := validateID(id); err != nil {
		return err
	}

	if _, err := m.session.Execute(ctx, CmdResetUserData, []byte{byte(id)}); err != nil {
		return &CommError{Op: "reset user data", ID: id, Err: err}
	}
	return nil
}

// ReadMemory reads length bytes from the servo's memory at address.
func (m *Manager) ReadMemory(ctx context.Context, id int, address byte, length int) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if length < 1 || length > MaxPayloadLen {
		return nil, fmt.Errorf("read length %d out of range 1-%d", length, MaxPayloadLen)
	}

	payload, err := m.session.Execute(ctx, CmdReadData, []byte{byte(id), address, byte(length)})
	if err != nil {
		return nil, &CommError{Op: "read memory", ID: id, Err: err}
	}
	return payload, nil
}

// WriteMemory writes data to the servo's memory at address.
func (m *Manager) WriteMemory(ctx context.Context, id int, address byte, data []byte) error {
	if err := validateID(id); err != nil {
		return err
	}
	if len(data) == 0 || len(data) > MaxPayloadLen-2 {
		return fmt.Errorf("write length %d out of range 1-%d", len(data), MaxPayloadLen-2)
	}

	buf := make([]byte, 2, 2+len(data))
	buf[0] = byte(id)
	buf[1] = address
	buf = append(buf, data...)

	if _, err := m.session.Execute(ctx, CmdWriteData, buf); err != nil {
		return &CommError{Op: "write memory", ID: id, Err: err}
	}
	return nil
}
