// Package uservo provides a Go library for communicating with FashionStar
// bus servo motors over a half-duplex UART/RS485 link.
package uservo

import (
	"fmt"
)

// Frame marker bytes. Requests and responses carry distinct markers so a
// reader never mistakes an echoed request for a reply.
const (
	requestMarker1 = 0x12
	requestMarker2 = 0x4C

	responseMarker1 = 0x05
	responseMarker2 = 0x1C
)

// Command codes per the FashionStar UART servo protocol.
const (
	CmdPing             byte = 0x01
	CmdSetAngle         byte = 0x03
	CmdQueryAngle       byte = 0x04
	CmdSetMultiturn     byte = 0x06
	CmdQueryVoltage     byte = 0x10
	CmdQueryCurrent     byte = 0x11
	CmdQueryPower       byte = 0x12
	CmdQueryTemperature byte = 0x13
	CmdQueryStatus      byte = 0x14
	CmdSetDamping       byte = 0x20
	CmdResetUserData    byte = 0x30
	CmdReadData         byte = 0x31
	CmdWriteData        byte = 0x32
)

// MaxServoID is the highest addressable servo ID on the bus.
const MaxServoID = 253

// minFrameLen is marker(2) + command(1) + length(1) + checksum(1) with an
// empty payload.
const minFrameLen = 5

// MaxPayloadLen is the largest payload the one-byte length field can describe.
const MaxPayloadLen = 255

// checksum is the arithmetic sum of data modulo 256.
func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// EncodeRequest builds a wire-format request frame for the given command and
// payload. The payload must fit the one-byte length field; longer payloads
// are a caller bug and panic.
func EncodeRequest(cmd byte, payload []byte) []byte {
	if len(payload) > MaxPayloadLen {
		panic(fmt.Sprintf("uservo: request payload too long: %d bytes", len(payload)))
	}

	buf := make([]byte, 0, minFrameLen+len(payload))
	buf = append(buf, requestMarker1, requestMarker2)
	buf = append(buf, cmd)
	buf = append(buf, byte(len(payload)))
	buf = append(buf, payload...)
	buf = append(buf, checksum(buf))

	return buf
}

// DecodeResponse validates a complete response frame and returns the echoed
// command code and the payload bytes. The buffer must contain exactly one
// frame; validation failures report which rule was broken via the sentinel
// errors ErrTooShort, ErrBadMarker, ErrLengthMismatch and ErrChecksumMismatch.
func DecodeResponse(buf []byte) (cmd byte, payload []byte, err error) {
	if len(buf) < minFrameLen {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrTooShort, len(buf))
	}

	if buf[0] != responseMarker1 || buf[1] != responseMarker2 {
		return 0, nil, fmt.Errorf("%w: %02X %02X", ErrBadMarker, buf[0], buf[1])
	}

	cmd = buf[2]
	size := int(buf[3])

	if len(buf) != minFrameLen+size {
		return 0, nil, fmt.Errorf("%w: declared %d payload bytes, frame is %d bytes",
			ErrLengthMismatch, size, len(buf))
	}

	want := checksum(buf[:len(buf)-1])
	got := buf[len(buf)-1]
	if want != got {
		return 0, nil, fmt.Errorf("%w: computed 0x%02X, got 0x%02X", ErrChecksumMismatch, want, got)
	}

	payload = make([]byte, size)
	copy(payload, buf[4:4+size])

	return cmd, payload, nil
}

// responseFrameLen returns the total frame length implied by the header of a
// partially received response, or 0 if fewer than four bytes are available.
func responseFrameLen(buf []byte) int {
	if len(buf) < 4 {
		return 0
	}
	return minFrameLen + int(buf[3])
}
