package uservo

import (
	"fmt"
	"strings"
)

// Status is the servo condition bitmask returned by the status query. Each
// bit is sticky until the underlying condition clears.
type Status byte

const (
	StatusExecuting    Status = 1 << 0 // command in progress, cleared on completion
	StatusCommandError Status = 1 << 1 // last command failed, cleared on next success
	StatusStall        Status = 1 << 2 // stall/overload, cleared when the stall releases
	StatusOverVoltage  Status = 1 << 3
	StatusUnderVoltage Status = 1 << 4
	StatusOverTemp     Status = 1 << 5
)

// HasFault reports whether any error condition is set. The executing bit is
// progress reporting, not a fault.
func (s Status) HasFault() bool {
	return s&^StatusExecuting != 0
}

func (s Status) String() string {
	if s == 0 {
		return "ok"
	}

	var flags []string
	if s&StatusExecuting != 0 {
		flags = append(flags, "executing")
	}
	if s&StatusCommandError != 0 {
		flags = append(flags, "command error")
	}
	if s&StatusStall != 0 {
		flags = append(flags, "stall")
	}
	if s&StatusOverVoltage != 0 {
		flags = append(flags, "over-voltage")
	}
	if s&StatusUnderVoltage != 0 {
		flags = append(flags, "under-voltage")
	}
	if s&StatusOverTemp != 0 {
		flags = append(flags, "over-temperature")
	}

	return fmt.Sprintf("status[%s]", strings.Join(flags, ","))
}
