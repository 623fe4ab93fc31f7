package uservo

import (
	"context"
	"testing"
	"time"

	"github.com/Laurence-Wu/uservo-go/transports"
)

// fakeController is a Controller test double, standing in for hardware the
// way callers of the interface are expected to.
type fakeController struct {
	Controller // panic on anything not overridden

	pinged    []int
	angles    map[int]float64
	relaxed   []int
	lastPower int
}

func (f *fakeController) Ping(ctx context.Context, id int) (bool, error) {
	f.pinged = append(f.pinged, id)
	_, ok := f.angles[id]
	return ok, nil
}

func (f *fakeController) Angle(ctx context.Context, id int) (float64, error) {
	return f.angles[id], nil
}

func (f *fakeController) SetDamping(ctx context.Context, id int, power int) error {
	f.relaxed = append(f.relaxed, id)
	f.lastPower = power
	return nil
}

func TestServo_DelegatesToController(t *testing.T) {
	ctl := &fakeController{angles: map[int]float64{7: 33.5}}
	servo := NewServo(ctl, 7)
	ctx := context.Background()

	if servo.ID() != 7 {
		t.Errorf("ID: got %d, want 7", servo.ID())
	}

	present, err := servo.Ping(ctx)
	if err != nil || !present {
		t.Errorf("Ping: got (%v, %v), want (true, nil)", present, err)
	}
	if len(ctl.pinged) != 1 || ctl.pinged[0] != 7 {
		t.Errorf("controller pinged %v, want [7]", ctl.pinged)
	}

	angle, err := servo.Angle(ctx)
	if err != nil || angle != 33.5 {
		t.Errorf("Angle: got (%v, %v), want (33.5, nil)", angle, err)
	}

	if err := servo.Relax(ctx); err != nil {
		t.Fatalf("Relax failed: %v", err)
	}
	if ctl.lastPower != DampingRelaxed {
		t.Errorf("Relax power: got %d, want %d", ctl.lastPower, DampingRelaxed)
	}
}

func TestServo_OverManager(t *testing.T) {
	mock := &transports.MockTransport{
		ReadData: respFrame(CmdSetAngle, nil),
	}
	m := newTestManager(t, mock)
	servo := NewServo(m, 3)

	err := servo.SetAngleWithDuration(context.Background(), 90.0, 2*time.Second)
	if err != nil {
		t.Fatalf("SetAngleWithDuration failed: %v", err)
	}
	if mock.WriteData[4] != 0x03 {
		t.Errorf("servo ID byte: got %02X, want 03", mock.WriteData[4])
	}
}
