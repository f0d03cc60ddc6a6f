package watchdog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/watchkit/watchkit/heartbeat"
	"github.com/watchkit/watchkit/logging"
)

// Common errors.
var (
	// ErrAlreadyStarted indicates Start was called while running.
	ErrAlreadyStarted = errors.New("watchdog already started")

	// ErrStopped indicates Start was called after Stop. A stopped
	// watchdog cannot be resumed; construct a new one.
	ErrStopped = errors.New("watchdog stopped")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config configures a Watchdog. All values are resolved once at
// construction; the watchdog never re-reads them.
type Config struct {
	// Enabled turns the watchdog on. When false every operation is a
	// pure no-op and IsTimedOut is always false.
	Enabled bool

	// HeartbeatInterval between external supervisor pings.
	// Zero disables the heartbeat task.
	HeartbeatInterval time.Duration

	// SkewRecovery is how long timeout detection stays suspended after
	// a clock discontinuity (system sleep/hibernation) is detected.
	SkewRecovery time.Duration

	// SkewThreshold is how far past its planned wake the monitor loop
	// must find itself before declaring a clock discontinuity.
	// Default: 5 seconds
	SkewThreshold time.Duration

	// WakeBuffer is added to the computed sleep so the loop never wakes
	// fractionally before the nearest deadline.
	// Default: 50 milliseconds
	WakeBuffer time.Duration

	// SleepFloor bounds the loop's sleep from below to avoid busy-spin.
	// Default: 100 milliseconds
	SleepFloor time.Duration

	// SleepCeiling bounds the loop's sleep from above as a safety net.
	// Default: 60 seconds
	SleepCeiling time.Duration

	// StopPollInterval is how often Stop re-signals the loop while
	// waiting for it to exit.
	// Default: 100 milliseconds
	StopPollInterval time.Duration
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		HeartbeatInterval: 5 * time.Second,
		SkewRecovery:      60 * time.Second,
		SkewThreshold:     5 * time.Second,
		WakeBuffer:        50 * time.Millisecond,
		SleepFloor:        100 * time.Millisecond,
		SleepCeiling:      60 * time.Second,
		StopPollInterval:  100 * time.Millisecond,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.HeartbeatInterval < 0 || c.SkewRecovery < 0 || c.SkewThreshold < 0 {
		return ErrInvalidConfig
	}
	if c.WakeBuffer < 0 || c.SleepFloor < 0 || c.SleepCeiling < 0 || c.StopPollInterval < 0 {
		return ErrInvalidConfig
	}
	if c.SleepCeiling > 0 && c.SleepFloor > c.SleepCeiling {
		return ErrInvalidConfig
	}
	return nil
}

type lifecycle int

const (
	stateNotStarted lifecycle = iota
	stateRunning
	stateStopped
)

// Watchdog tracks named tasks by refreshable deadline and runs a single
// background loop that detects when any deadline elapses. A timeout is
// terminal: the timed-out set is never cleared for the lifetime of the
// instance, and external heartbeats stop so the supervisor restarts the
// process.
//
// All methods are safe for concurrent use. Deadlines use time.Time
// values from time.Now, which carry a monotonic reading, so wall-clock
// adjustments never produce spurious timeouts.
type Watchdog struct {
	cfg     Config
	log     *logging.Logger
	emitter heartbeat.Emitter

	// heartbeatName is the reserved, process-unique name of the
	// synthetic self-rescheduling heartbeat task.
	heartbeatName string

	mu            sync.Mutex
	state         lifecycle
	stopRequested bool
	tasks         map[string]time.Time
	timedOut      map[string]time.Time
	suppressUntil time.Time
	predictedWake time.Time

	wakeCh chan struct{}
	doneCh chan struct{}
}

// New creates a Watchdog. A nil emitter disables external heartbeats;
// task monitoring still runs. A nil logger falls back to logging.New.
func New(cfg Config, log *logging.Logger, emitter heartbeat.Emitter) (*Watchdog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if log == nil {
		log = logging.New()
	}

	return &Watchdog{
		cfg:           cfg,
		log:           log,
		emitter:       emitter,
		heartbeatName: fmt.Sprintf("udp-heartbeat-%d", os.Getpid()),
		tasks:         make(map[string]time.Time),
		timedOut:      make(map[string]time.Time),
		wakeCh:        make(chan struct{}, 1),
		doneCh:        make(chan struct{}),
	}, nil
}

// applyDefaults fills zero timing constants. HeartbeatInterval and
// SkewRecovery are honored as-is: zero means the feature is off.
func applyDefaults(c *Config) {
	def := DefaultConfig()
	if c.SkewThreshold == 0 {
		c.SkewThreshold = def.SkewThreshold
	}
	if c.WakeBuffer == 0 {
		c.WakeBuffer = def.WakeBuffer
	}
	if c.SleepFloor == 0 {
		c.SleepFloor = def.SleepFloor
	}
	if c.SleepCeiling == 0 {
		c.SleepCeiling = def.SleepCeiling
	}
	if c.StopPollInterval == 0 {
		c.StopPollInterval = def.StopPollInterval
	}
}

// Ping creates or refreshes the named task's deadline to now+timeout.
// The last Ping wins. If the new deadline precedes the loop's planned
// wake, the loop is woken immediately. Ping never fails; on a disabled
// watchdog it is a pure no-op.
func (w *Watchdog) Ping(name string, timeout time.Duration) {
	if !w.cfg.Enabled || name == w.heartbeatName {
		return
	}

	deadline := time.Now().Add(timeout)

	w.mu.Lock()
	if w.state == stateStopped {
		w.mu.Unlock()
		return
	}
	w.tasks[name] = deadline
	wake := w.state == stateRunning && !w.predictedWake.IsZero() && deadline.Before(w.predictedWake)
	w.mu.Unlock()

	if wake {
		w.signalWake()
	}
}

// CloseTimeout removes the named task. Removing an absent name is a
// silent no-op.
func (w *Watchdog) CloseTimeout(name string) {
	if !w.cfg.Enabled || name == w.heartbeatName {
		return
	}

	w.mu.Lock()
	delete(w.tasks, name)
	w.mu.Unlock()
}

// Start begins the monitor loop. Calling it twice returns
// ErrAlreadyStarted; calling it after Stop returns ErrStopped. On a
// disabled watchdog Start is a no-op.
func (w *Watchdog) Start() error {
	if !w.cfg.Enabled {
		return nil
	}

	w.mu.Lock()
	switch w.state {
	case stateRunning:
		w.mu.Unlock()
		return ErrAlreadyStarted
	case stateStopped:
		w.mu.Unlock()
		return ErrStopped
	}
	w.state = stateRunning
	if w.heartbeatEnabled() {
		w.tasks[w.heartbeatName] = time.Now().Add(w.cfg.HeartbeatInterval)
	}
	w.mu.Unlock()

	go w.run()
	return nil
}

// Stop requests loop termination and blocks until the loop goroutine
// has exited, re-signaling it on StopPollInterval rather than waiting
// indefinitely on a single wake. Stop is the terminal transition; the
// watchdog cannot be started again.
func (w *Watchdog) Stop() {
	if !w.cfg.Enabled {
		return
	}

	w.mu.Lock()
	if w.state != stateRunning {
		w.state = stateStopped
		w.mu.Unlock()
		return
	}
	w.stopRequested = true
	w.mu.Unlock()

	for {
		w.signalWake()
		select {
		case <-w.doneCh:
			w.mu.Lock()
			w.state = stateStopped
			w.mu.Unlock()
			return
		case <-time.After(w.cfg.StopPollInterval):
		}
	}
}

// IsTimedOut reports whether any task has exceeded its deadline. Once
// true it stays true for the lifetime of the instance.
func (w *Watchdog) IsTimedOut() bool {
	if !w.cfg.Enabled {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timedOut) > 0
}

// IsUDPPingingActive reports whether the heartbeat task is currently
// registered. It goes false as soon as any ordinary task times out.
func (w *Watchdog) IsUDPPingingActive() bool {
	if !w.cfg.Enabled {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.tasks[w.heartbeatName]
	return ok
}

// TaskList returns the sorted names of active ordinary tasks. The
// heartbeat task is excluded.
func (w *Watchdog) TaskList() []string {
	if !w.cfg.Enabled {
		return nil
	}

	w.mu.Lock()
	names := make([]string, 0, len(w.tasks))
	for name := range w.tasks {
		if name == w.heartbeatName {
			continue
		}
		names = append(names, name)
	}
	w.mu.Unlock()

	sort.Strings(names)
	return names
}

// TimedOutTasks returns the sorted names of tasks that have timed out.
func (w *Watchdog) TimedOutTasks() []string {
	if !w.cfg.Enabled {
		return nil
	}

	w.mu.Lock()
	names := make([]string, 0, len(w.timedOut))
	for name := range w.timedOut {
		names = append(names, name)
	}
	w.mu.Unlock()

	sort.Strings(names)
	return names
}

func (w *Watchdog) heartbeatEnabled() bool {
	return w.emitter != nil && w.cfg.HeartbeatInterval > 0
}

// signalWake nudges the monitor loop. The channel has capacity one and
// the send never blocks, giving auto-reset event semantics.
func (w *Watchdog) signalWake() {
	select {
	case w.wakeCh <- struct{}{}:
	default:
	}
}
