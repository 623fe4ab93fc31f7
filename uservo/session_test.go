package uservo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Laurence-Wu/uservo-go/transports"
)

func newTestSession(t *testing.T, mock *transports.MockTransport) *Session {
	t.Helper()

	s, err := NewSession(mock, Config{Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSession_Execute(t *testing.T) {
	mock := &transports.MockTransport{
		ReadData: respFrame(CmdQueryAngle, []byte{0x84, 0x03}),
	}
	s := newTestSession(t, mock)

	payload, err := s.Execute(context.Background(), CmdQueryAngle, []byte{0x01})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if getInt16(payload) != 900 {
		t.Errorf("payload: got %d, want 900", getInt16(payload))
	}

	// The request frame must have gone out exactly as encoded.
	want := EncodeRequest(CmdQueryAngle, []byte{0x01})
	if !bytes.Equal(mock.WriteData, want) {
		t.Errorf("request: got %X, want %X", mock.WriteData, want)
	}

	if mock.Flushes != 1 {
		t.Errorf("flushes: got %d, want 1", mock.Flushes)
	}
}

func TestSession_ExecuteChunkedResponse(t *testing.T) {
	// Response arrives one byte per read.
	frame := respFrame(CmdQueryStatus, []byte{0x04})
	idx := 0
	mock := &transports.MockTransport{}
	mock.ReadFunc = func(p []byte) (int, error) {
		if idx >= len(frame) {
			return 0, nil
		}
		p[0] = frame[idx]
		idx++
		return 1, nil
	}
	s := newTestSession(t, mock)

	payload, err := s.Execute(context.Background(), CmdQueryStatus, []byte{0x01})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(payload) != 1 || payload[0] != 0x04 {
		t.Errorf("payload: got %X, want [04]", payload)
	}
}

func TestSession_ExecuteTimeout(t *testing.T) {
	mock := &transports.MockTransport{} // never responds
	s := newTestSession(t, mock)

	start := time.Now()
	_, err := s.Execute(context.Background(), CmdPing, []byte{0x07})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("got %v, want ErrTimeout", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timed out too early: %v", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("timed out too late: %v", elapsed)
	}
}

func TestSession_ExecuteIncompleteFrame(t *testing.T) {
	// Header promises two payload bytes that never arrive.
	mock := &transports.MockTransport{
		ReadData: []byte{0x05, 0x1C, CmdQueryAngle, 0x02, 0x84},
	}
	s := newTestSession(t, mock)

	_, err := s.Execute(context.Background(), CmdQueryAngle, []byte{0x01})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", err)
	}
}

func TestSession_ExecuteRejectsRequestMarker(t *testing.T) {
	// An echoed request is not a response, even with a valid checksum.
	mock := &transports.MockTransport{
		ReadData: EncodeRequest(CmdPing, []byte{0x01}),
	}
	s := newTestSession(t, mock)

	_, err := s.Execute(context.Background(), CmdPing, []byte{0x01})
	if !errors.Is(err, ErrBadMarker) {
		t.Errorf("got %v, want ErrBadMarker", err)
	}
}

func TestSession_ExecuteCommandMismatch(t *testing.T) {
	// A well-formed frame echoing a different command is a stale reply and
	// must not be accepted as this transaction's response.
	mock := &transports.MockTransport{
		ReadData: respFrame(CmdQueryVoltage, []byte{0xE8, 0x1C}),
	}
	s := newTestSession(t, mock)

	_, err := s.Execute(context.Background(), CmdQueryAngle, []byte{0x01})
	if !errors.Is(err, ErrCommandMismatch) {
		t.Errorf("got %v, want ErrCommandMismatch", err)
	}
}

func TestSession_StaleBytesDiscardedBeforeWrite(t *testing.T) {
	// Leftovers from an abandoned exchange sit on the line. The pre-write
	// flush must drop them so the second transaction reads only its own
	// response.
	mock := &transports.MockTransport{
		StaleData: respFrame(CmdQueryAngle, []byte{0x10, 0x00}),
		ReadData:  respFrame(CmdQueryVoltage, []byte{0xE8, 0x1C}),
	}
	s := newTestSession(t, mock)

	payload, err := s.Execute(context.Background(), CmdQueryVoltage, []byte{0x01})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if getUint16(payload) != 7400 {
		t.Errorf("payload: got %d, want 7400", getUint16(payload))
	}
}

func TestSession_ExecuteAfterClose(t *testing.T) {
	mock := &transports.MockTransport{}
	s := newTestSession(t, mock)

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if !mock.Closed {
		t.Error("transport not closed")
	}

	_, err := s.Execute(context.Background(), CmdPing, []byte{0x01})
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("got %v, want ErrSessionClosed", err)
	}
}

func TestSession_ExecuteContextCancelled(t *testing.T) {
	mock := &transports.MockTransport{} // never responds
	s := newTestSession(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Execute(ctx, CmdPing, []byte{0x01})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestNewSession_RequiresTransportOrPort(t *testing.T) {
	_, err := NewSession(nil, Config{})
	if err == nil {
		t.Error("expected error with neither transport nor port")
	}
}
