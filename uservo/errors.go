package uservo

import (
	"errors"
	"fmt"
)

// Frame validation errors returned by DecodeResponse.
var (
	ErrTooShort         = errors.New("frame too short")
	ErrBadMarker        = errors.New("bad frame marker")
	ErrLengthMismatch   = errors.New("frame length mismatch")
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// Transaction errors returned by the Session and Manager.
var (
	ErrTimeout         = errors.New("communication timeout")
	ErrCommandMismatch = errors.New("response command does not match request")
	ErrSessionClosed   = errors.New("session is closed")
	ErrInvalidID       = errors.New("invalid servo ID")
)

// CommError wraps a failed exchange with the operation that attempted it.
type CommError struct {
	Op  string // Operation that failed (e.g., "ping", "query angle")
	ID  int    // Servo ID, or -1 when not applicable
	Err error  // Underlying error
}

func (e *CommError) Error() string {
	if e.ID >= 0 {
		return fmt.Sprintf("servo %d: %s failed: %v", e.ID, e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CommError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether the error means no response arrived in time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsMalformed reports whether the error means response bytes arrived but
// failed frame validation or the command cross-check.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrBadMarker) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrCommandMismatch)
}
