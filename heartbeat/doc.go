// Package heartbeat sends fire-and-forget liveness signals to an
// out-of-process supervisor.
//
// # Overview
//
// A heartbeat proves that the monitoring loop inside this process is
// still running. The supervisor counts on receiving one at a steady
// interval; when heartbeats cease it force-restarts the process. The
// payload is a pre-shared secret so the supervisor can ignore stray
// traffic on its port.
//
// Emitters are deliberately dumb: one datagram or message per Emit, no
// acknowledgment, no retry. Scheduling is the caller's job (the watchdog
// models the heartbeat as a self-rescheduling task in its registry).
//
// # Usage
//
// UDP to a local supervisor:
//
//	emitter, err := heartbeat.NewUDPEmitter(heartbeat.UDPConfig{
//	    Port:   9901,
//	    Secret: os.Getenv("WATCHKIT_HEARTBEAT_SECRET"),
//	})
//	if errors.Is(err, heartbeat.ErrDisabled) {
//	    emitter = nil // heartbeats off, watchdog still monitors tasks
//	}
//
// NATS for bus-attached supervisors:
//
//	emitter, err := heartbeat.NewNATSEmitter(heartbeat.NATSConfig{
//	    Conn:   nc,
//	    Name:   "billing-svc",
//	    Secret: secret,
//	})
//
// # Degradation
//
// Missing port or secret yields ErrDisabled rather than a hard failure;
// the rest of the watchdog keeps working without external pings.
package heartbeat
