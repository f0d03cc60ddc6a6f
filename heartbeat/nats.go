package heartbeat

import (
	"github.com/nats-io/nats.go"
)

// SubjectPrefix is the subject prefix for bus-delivered heartbeats.
const SubjectPrefix = "watchdog.heartbeat."

// NATSConfig configures the NATS heartbeat emitter.
type NATSConfig struct {
	// Conn is an established NATS connection. The emitter does not own
	// the connection; closing the emitter leaves it open.
	Conn *nats.Conn

	// Name identifies the monitored process in the heartbeat subject.
	Name string

	// Secret is the shared secret sent as the message payload.
	Secret string
}

// Validate checks the configuration.
func (c *NATSConfig) Validate() error {
	if c.Conn == nil || c.Name == "" || c.Secret == "" {
		return ErrDisabled
	}
	return nil
}

// NATSEmitter publishes heartbeats to a NATS subject, for deployments
// whose supervisor listens on a message bus rather than a loopback
// socket. The contract matches UDPEmitter: one publish per Emit, payload
// is the raw secret bytes, no reply expected.
type NATSEmitter struct {
	conn    *nats.Conn
	subject string
	secret  []byte
}

// NewNATSEmitter creates a new NATS emitter. It returns ErrDisabled when
// the connection, name, or secret is unset.
func NewNATSEmitter(cfg NATSConfig) (*NATSEmitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &NATSEmitter{
		conn:    cfg.Conn,
		subject: SubjectPrefix + cfg.Name,
		secret:  []byte(cfg.Secret),
	}, nil
}

// Subject returns the subject heartbeats are published to.
func (e *NATSEmitter) Subject() string {
	return e.subject
}

// Emit publishes one heartbeat message.
func (e *NATSEmitter) Emit() error {
	return e.conn.Publish(e.subject, e.secret)
}

// Close implements Emitter. The connection belongs to the caller and is
// left open.
func (e *NATSEmitter) Close() error {
	return nil
}
