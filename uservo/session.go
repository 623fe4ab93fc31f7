package uservo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Laurence-Wu/uservo-go/transports"
)

// Transport is the interface to the physical byte stream under a Session.
// Implementations live in the transports package; tests substitute a mock.
type Transport interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds how long a single Read may block.
	SetReadTimeout(timeout time.Duration) error

	// Flush discards any unread input bytes.
	Flush() error
}

// Session owns one Transport and drives one request/response transaction at
// a time. It performs no retries; every failed exchange is surfaced to the
// caller, who decides whether to try again.
type Session struct {
	transport Transport
	timeout   time.Duration
	log       zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewSession creates a session over an already-open transport. If the
// transport is nil, the Port in cfg is opened as a serial connection.
func NewSession(transport Transport, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()

	if transport == nil {
		if cfg.Port == "" {
			return nil, errors.New("either a transport or a serial port must be specified")
		}
		var err error
		transport, err = transports.OpenSerial(transports.SerialConfig{
			Port:     cfg.Port,
			BaudRate: cfg.BaudRate,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open serial port: %w", err)
		}
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Session{
		transport: transport,
		timeout:   cfg.Timeout,
		log:       log,
	}, nil
}

// Close closes the session and the underlying transport. Safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.transport.Close()
}

// Timeout returns the per-transaction deadline.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Execute runs one transaction: discard stale input, write the request
// frame, collect the response within the session timeout, validate it, and
// return its payload. The echoed command code must match the request; a
// mismatch means a stale or foreign frame and fails the exchange.
func (s *Session) Execute(ctx context.Context, cmd byte, payload []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	// Drop whatever a previous abandoned exchange left on the line.
	s.transport.Flush()

	request := EncodeRequest(cmd, payload)
	n, err := s.transport.Write(request)
	if err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}
	if n != len(request) {
		return nil, fmt.Errorf("incomplete write: %d of %d bytes", n, len(request))
	}

	s.log.Debug().Hex("frame", request).Uint8("cmd", cmd).Msg("tx")

	raw, err := s.readFrame(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Hex("frame", raw).Msg("rx")

	echoed, data, err := DecodeResponse(raw)
	if err != nil {
		return nil, err
	}
	if echoed != cmd {
		return nil, fmt.Errorf("%w: sent 0x%02X, got 0x%02X", ErrCommandMismatch, cmd, echoed)
	}

	return data, nil
}

// readFrame accumulates bytes until one complete response frame is present
// or the deadline passes. The header's length byte tells us how many bytes a
// full frame needs.
func (s *Session) readFrame(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 0, minFrameLen+MaxPayloadLen)
	chunk := make([]byte, 64)
	deadline := time.Now().Add(s.timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if need := responseFrameLen(buf); need > 0 && len(buf) >= need {
			return buf[:need], nil
		}

		if time.Now().After(deadline) {
			if len(buf) == 0 {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("%w: %d bytes received, incomplete frame", ErrTimeout, len(buf))
		}

		remaining := max(time.Until(deadline), time.Millisecond)
		s.transport.SetReadTimeout(remaining)

		n, err := s.transport.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read error: %w", err)
		}
		// Zero-byte read: the transport timed out waiting. Back off
		// briefly and re-check the deadline.
		time.Sleep(time.Millisecond)
	}
}
