package heartbeat

import (
	"fmt"
	"net"
	"sync"
)

// UDPConfig configures the UDP heartbeat emitter.
type UDPConfig struct {
	// Port is the supervisor's UDP port on the loopback interface.
	// Zero disables the emitter.
	Port int

	// Secret is the shared secret sent as the raw datagram payload.
	// Empty disables the emitter.
	Secret string
}

// Enabled reports whether the configuration is complete enough
// for heartbeats to be sent.
func (c UDPConfig) Enabled() bool {
	return c.Port != 0 && c.Secret != ""
}

// Validate checks the configuration.
func (c *UDPConfig) Validate() error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidConfig
	}
	return nil
}

// UDPEmitter sends the shared secret as a single UDP datagram to a
// supervisor listening on the loopback interface. Datagrams are
// fire-and-forget: nothing is read back and nothing is retried.
type UDPEmitter struct {
	secret []byte

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// NewUDPEmitter creates a new UDP emitter. It returns ErrDisabled when
// the port or secret is unset so callers can degrade gracefully.
func NewUDPEmitter(cfg UDPConfig) (*UDPEmitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := net.Dial("udp", fmt.Sprintf("127.0.0.1:%d", cfg.Port))
	if err != nil {
		return nil, err
	}

	return &UDPEmitter{
		secret: []byte(cfg.Secret),
		conn:   conn,
	}, nil
}

// Emit sends one heartbeat datagram.
func (e *UDPEmitter) Emit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	_, err := e.conn.Write(e.secret)
	return err
}

// Close closes the underlying socket. Safe to call more than once.
func (e *UDPEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return e.conn.Close()
}
