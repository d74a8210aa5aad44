// Package device also provides MockDevice, an in-memory Device used by tests
// in place of real hardware.
package device

import (
	"errors"
	"sync"
	"time"
)

// MockDevice implements Device for testing. Written lines are recorded and
// can be inspected; reads are fed from a queue.
type MockDevice struct {
	mu         sync.Mutex
	Written    []string
	readQueue  []string
	WriteError error
	CloseError error
	Closed     bool
	WriteDelay time.Duration
}

// NewMockDevice creates an empty mock device.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// QueueLine adds a line that a later ReadLine call will return.
func (m *MockDevice) QueueLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readQueue = append(m.readQueue, line)
}

// ReadLine returns the next queued line or times out.
func (m *MockDevice) ReadLine(timeout time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Closed {
		return "", errors.New("device closed")
	}
	if len(m.readQueue) == 0 {
		return "", errors.New("read timeout")
	}
	line := m.readQueue[0]
	m.readQueue = m.readQueue[1:]
	return line, nil
}

// WriteLine records the written line, honoring WriteError and WriteDelay.
func (m *MockDevice) WriteLine(line string) error {
	if m.WriteDelay > 0 {
		time.Sleep(m.WriteDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Closed {
		return errors.New("device closed")
	}
	if m.WriteError != nil {
		return m.WriteError
	}
	m.Written = append(m.Written, line)
	return nil
}

// Close marks the device closed.
func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.CloseError
}

// Lines returns a copy of everything written so far.
func (m *MockDevice) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Written))
	copy(out, m.Written)
	return out
}
