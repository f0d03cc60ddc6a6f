// Package config resolves watchdog settings from a TOML file and the
// process environment. Settings are resolved once at construction and
// never hot-reloaded.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/watchkit/watchkit/heartbeat"
	"github.com/watchkit/watchkit/shutdown"
	"github.com/watchkit/watchkit/watchdog"
)

// Environment variables. All optional; absence disables the
// corresponding feature without failing construction.
const (
	// EnvHeartbeatSecret holds the shared secret sent to the supervisor.
	EnvHeartbeatSecret = "WATCHKIT_HEARTBEAT_SECRET"

	// EnvSupervisorPort holds the supervisor's loopback UDP port.
	EnvSupervisorPort = "WATCHKIT_SUPERVISOR_PORT"

	// EnvShutdownEvent holds the named shutdown-signal identifier.
	EnvShutdownEvent = "WATCHKIT_SHUTDOWN_EVENT"
)

// Config aggregates everything the watchdog subsystem needs. File
// fields use whole seconds for coarse intervals and milliseconds for
// the fine timing constants; zero values fall back to watchdog
// defaults.
type Config struct {
	// Enabled turns the whole subsystem on.
	Enabled bool `toml:"enabled"`

	// HeartbeatIntervalSeconds between supervisor pings. Zero disables
	// the heartbeat.
	HeartbeatIntervalSeconds int `toml:"heartbeat_interval_seconds"`

	// SkewRecoverySeconds of suppressed timeout detection after a
	// clock discontinuity.
	SkewRecoverySeconds int `toml:"skew_recovery_seconds"`

	// Fine timing constants; zero means the watchdog default.
	SkewThresholdMillis    int `toml:"skew_threshold_ms"`
	WakeBufferMillis       int `toml:"wake_buffer_ms"`
	SleepFloorMillis       int `toml:"sleep_floor_ms"`
	SleepCeilingMillis     int `toml:"sleep_ceiling_ms"`
	StopPollIntervalMillis int `toml:"stop_poll_interval_ms"`

	// Environment-derived fields, never read from the file.
	HeartbeatSecret   string `toml:"-"`
	SupervisorPort    int    `toml:"-"`
	ShutdownEventName string `toml:"-"`
}

// Default returns the baseline configuration: enabled, watchdog default
// timings, environment features off until resolved.
func Default() Config {
	def := watchdog.DefaultConfig()
	return Config{
		Enabled:                  true,
		HeartbeatIntervalSeconds: int(def.HeartbeatInterval / time.Second),
		SkewRecoverySeconds:      int(def.SkewRecovery / time.Second),
	}
}

// FromEnv returns the default configuration with environment features
// resolved. An unparsable port disables the heartbeat rather than
// failing: features degrade individually.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// Load reads cfg from a TOML file, then resolves the environment on
// top of it.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HeartbeatSecret = os.Getenv(EnvHeartbeatSecret)
	c.ShutdownEventName = os.Getenv(EnvShutdownEvent)

	if raw := os.Getenv(EnvSupervisorPort); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port <= 65535 {
			c.SupervisorPort = port
		}
	}
}

// Watchdog converts to the core watchdog configuration.
func (c *Config) Watchdog() watchdog.Config {
	return watchdog.Config{
		Enabled:           c.Enabled,
		HeartbeatInterval: time.Duration(c.HeartbeatIntervalSeconds) * time.Second,
		SkewRecovery:      time.Duration(c.SkewRecoverySeconds) * time.Second,
		SkewThreshold:     time.Duration(c.SkewThresholdMillis) * time.Millisecond,
		WakeBuffer:        time.Duration(c.WakeBufferMillis) * time.Millisecond,
		SleepFloor:        time.Duration(c.SleepFloorMillis) * time.Millisecond,
		SleepCeiling:      time.Duration(c.SleepCeilingMillis) * time.Millisecond,
		StopPollInterval:  time.Duration(c.StopPollIntervalMillis) * time.Millisecond,
	}
}

// UDP converts to the heartbeat emitter configuration.
func (c *Config) UDP() heartbeat.UDPConfig {
	return heartbeat.UDPConfig{
		Port:   c.SupervisorPort,
		Secret: c.HeartbeatSecret,
	}
}

// ShutdownSignal converts to the shutdown signal configuration.
func (c *Config) ShutdownSignal() shutdown.FileConfig {
	cfg := shutdown.DefaultFileConfig()
	cfg.Name = c.ShutdownEventName
	return cfg
}
