package shutdown

import (
	"errors"
	"sync"
	"time"
)

// Common errors.
var (
	// ErrDisabled indicates no signal identifier is configured, so
	// shutdown requests cannot be asserted or observed.
	ErrDisabled = errors.New("shutdown signal disabled")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Signal is a named, manually-reset, level-triggered shutdown request
// shared between a monitored process and its supervisor. Once asserted
// it stays asserted: WaitForShutdownEvent observes it without clearing
// it, so every subsequent check also sees the standing request.
type Signal interface {
	// WaitForShutdownEvent blocks up to timeout and reports whether a
	// shutdown has been requested. An unconfigured signal is a plain
	// bounded sleep returning false.
	WaitForShutdownEvent(timeout time.Duration) bool

	// Assert raises the shutdown request. Typically called by the
	// supervisor, but exposed here so either side can initiate.
	Assert() error

	// Reset clears the request. Waiting callers go back to seeing false.
	Reset() error

	// IsSignaled reports the current state without blocking.
	IsSignaled() bool
}

// MemorySignal is an in-process Signal implementation for testing.
type MemorySignal struct {
	mu       sync.Mutex
	signaled chan struct{}
}

// NewMemorySignal creates an unsignaled MemorySignal.
func NewMemorySignal() *MemorySignal {
	return &MemorySignal{signaled: make(chan struct{})}
}

// WaitForShutdownEvent blocks up to timeout for the signal.
func (s *MemorySignal) WaitForShutdownEvent(timeout time.Duration) bool {
	s.mu.Lock()
	ch := s.signaled
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}

// Assert raises the signal. Idempotent.
func (s *MemorySignal) Assert() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.signaled:
		// Already asserted.
	default:
		close(s.signaled)
	}
	return nil
}

// Reset clears the signal.
func (s *MemorySignal) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.signaled:
		s.signaled = make(chan struct{})
	default:
	}
	return nil
}

// IsSignaled reports whether the signal is asserted.
func (s *MemorySignal) IsSignaled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.signaled:
		return true
	default:
		return false
	}
}
