package heartbeat

import (
	"errors"
	"sync"
)

// Common errors.
var (
	// ErrDisabled indicates the emitter is not configured and heartbeats
	// are disabled. Callers should degrade gracefully rather than fail.
	ErrDisabled = errors.New("heartbeat disabled")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed indicates the emitter has been closed.
	ErrClosed = errors.New("emitter closed")
)

// Emitter sends a single fire-and-forget heartbeat to an external
// supervisor. No acknowledgment is expected or awaited.
type Emitter interface {
	// Emit sends one heartbeat. An error means the transport itself
	// failed; the caller decides whether that is fatal.
	Emit() error

	// Close releases any transport resources held by the emitter.
	Close() error
}

// MemoryEmitter records emissions in memory, for testing.
type MemoryEmitter struct {
	mu      sync.Mutex
	count   int
	failErr error
}

// NewMemoryEmitter creates an emitter for testing.
func NewMemoryEmitter() *MemoryEmitter {
	return &MemoryEmitter{}
}

// Emit records one emission, or returns the injected failure.
func (e *MemoryEmitter) Emit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failErr != nil {
		return e.failErr
	}
	e.count++
	return nil
}

// Close implements Emitter.
func (e *MemoryEmitter) Close() error {
	return nil
}

// Count returns the number of recorded emissions.
func (e *MemoryEmitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// FailWith makes subsequent Emit calls return err. Pass nil to clear.
func (e *MemoryEmitter) FailWith(err error) {
	e.mu.Lock()
	e.failErr = err
	e.mu.Unlock()
}

// Clear resets the recorded emission count.
func (e *MemoryEmitter) Clear() {
	e.mu.Lock()
	e.count = 0
	e.mu.Unlock()
}
