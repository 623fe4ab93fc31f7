package transports

import (
	"io"
	"time"
)

// MockTransport implements the session Transport for tests. Reads drain
// StaleData first (bytes a previous exchange left behind), then ReadData.
// Flush discards StaleData only, mirroring a real line where the response
// to the *current* request has not arrived yet at flush time.
type MockTransport struct {
	StaleData   []byte
	ReadData    []byte
	ReadErr     error
	WriteData   []byte
	WriteErr    error
	Closed      bool
	ReadTimeout time.Duration
	Flushes     int

	// ReadFunc overrides Read entirely for scripted tests.
	ReadFunc func(p []byte) (int, error)
}

func (m *MockTransport) Read(p []byte) (int, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(p)
	}
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	if len(m.StaleData) > 0 {
		n := copy(p, m.StaleData)
		m.StaleData = m.StaleData[n:]
		return n, nil
	}
	n := copy(p, m.ReadData)
	m.ReadData = m.ReadData[n:]
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (m *MockTransport) Write(p []byte) (int, error) {
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	m.WriteData = append(m.WriteData, p...)
	return len(p), nil
}

func (m *MockTransport) Close() error {
	m.Closed = true
	return nil
}

func (m *MockTransport) SetReadTimeout(timeout time.Duration) error {
	m.ReadTimeout = timeout
	return nil
}

func (m *MockTransport) Flush() error {
	m.Flushes++
	m.StaleData = nil
	return nil
}
