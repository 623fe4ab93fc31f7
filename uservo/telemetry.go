package uservo

import (
	"context"
)

// Reading is one telemetry field outcome. Err is non-nil when that field's
// query failed; Value is only meaningful when Err is nil.
type Reading struct {
	Value float64
	Err   error
}

// StatusReading is the status field outcome of a telemetry snapshot.
type StatusReading struct {
	Value Status
	Err   error
}

// Telemetry is an aggregate snapshot of one servo. Each field carries its
// own outcome so a single failed query never hides the fields that did
// answer, and never silently defaults a value.
type Telemetry struct {
	Angle       Reading
	Voltage     Reading
	Current     Reading
	Power       Reading
	Temperature Reading
	Status      StatusReading
}

// Complete reports whether every field was read successfully.
func (t Telemetry) Complete() bool {
	return t.Angle.Err == nil &&
		t.Voltage.Err == nil &&
		t.Current.Err == nil &&
		t.Power.Err == nil &&
		t.Temperature.Err == nil &&
		t.Status.Err == nil
}

// Telemetry queries all telemetry fields of one servo, one transaction per
// field, and returns the per-field outcomes. An error is returned only when
// the snapshot could not be attempted at all (bad ID, cancelled context);
// individual field failures live inside the result.
func (m *Manager) Telemetry(ctx context.Context, id int) (Telemetry, error) {
	if err := validateID(id); err != nil {
		return Telemetry{}, err
	}

	var t Telemetry

	t.Angle.Value, t.Angle.Err = m.Angle(ctx, id)
	if err := ctx.Err(); err != nil {
		return t, err
	}
	t.Voltage.Value, t.Voltage.Err = m.Voltage(ctx, id)
	if err := ctx.Err(); err != nil {
		return t, err
	}
	t.Current.Value, t.Current.Err = m.Current(ctx, id)
	if err := ctx.Err(); err != nil {
		return t, err
	}
	t.Power.Value, t.Power.Err = m.Power(ctx, id)
	if err := ctx.Err(); err != nil {
		return t, err
	}
	t.Temperature.Value, t.Temperature.Err = m.Temperature(ctx, id)
	if err := ctx.Err(); err != nil {
		return t, err
	}
	t.Status.Value, t.Status.Err = m.Status(ctx, id)

	return t, nil
}
