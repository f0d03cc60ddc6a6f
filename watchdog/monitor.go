package watchdog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// run is the single monitor goroutine. It exits when Stop is requested,
// when the heartbeat transport fails, or when an iteration panics. In
// the failure cases external heartbeats cease, which is the designed
// fallback of last resort: the supervisor's own timeout then
// force-restarts the process.
func (w *Watchdog) run() {
	defer close(w.doneCh)
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("monitor loop panicked; external heartbeats cease", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
		}
	}()

	for {
		w.mu.Lock()
		stop := w.stopRequested
		w.mu.Unlock()
		if stop {
			return
		}

		sleep, err := w.iterate()
		if err != nil {
			w.log.Error("monitor loop exiting; external heartbeats cease", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}

		timer := time.NewTimer(sleep)
		select {
		case <-timer.C:
		case <-w.wakeCh:
			timer.Stop()
		}
	}
}

// iterate performs one evaluation pass over the registry and returns
// how long to sleep before the next one. Logging and heartbeat I/O
// happen after the critical section so concurrent Ping and CloseTimeout
// calls are never blocked behind the network or the log sink.
func (w *Watchdog) iterate() (time.Duration, error) {
	now := time.Now()

	w.mu.Lock()

	skewed := false
	if !w.predictedWake.IsZero() && now.Sub(w.predictedWake) > w.cfg.SkewThreshold {
		// The loop woke far past its planned time: the machine likely
		// suspended. Expired deadlines would be false positives, so
		// suppress detection until tasks have had a chance to refresh.
		w.suppressUntil = now.Add(w.cfg.SkewRecovery)
		skewed = true
	}
	suppressed := now.Before(w.suppressUntil)

	var expired []string
	var next time.Time

	// Ordinary tasks first; the heartbeat task's fate depends on
	// whether any of them expired in this same pass.
	for name, deadline := range w.tasks {
		if name == w.heartbeatName {
			continue
		}
		if deadline.After(now) {
			if next.IsZero() || deadline.Before(next) {
				next = deadline
			}
			continue
		}
		if suppressed {
			// Still tracked; reconsidered once the window closes.
			if next.IsZero() || deadline.Before(next) {
				next = deadline
			}
			continue
		}
		if _, seen := w.timedOut[name]; !seen {
			w.timedOut[name] = now
		}
		delete(w.tasks, name)
		// Evict the heartbeat task too, silencing external pings so the
		// supervisor's timeout starts counting immediately.
		delete(w.tasks, w.heartbeatName)
		expired = append(expired, name)
	}

	heartbeatDue := false
	if deadline, ok := w.tasks[w.heartbeatName]; ok {
		if deadline.After(now) {
			if next.IsZero() || deadline.Before(next) {
				next = deadline
			}
		} else if len(expired) == 0 {
			// The heartbeat task reschedules itself rather than timing
			// out. Skew suppression does not apply to it.
			rescheduled := now.Add(w.cfg.HeartbeatInterval)
			w.tasks[w.heartbeatName] = rescheduled
			if next.IsZero() || rescheduled.Before(next) {
				next = rescheduled
			}
			heartbeatDue = true
		}
	}

	sleep := w.cfg.SleepCeiling
	if !next.IsZero() {
		sleep = next.Sub(now) + w.cfg.WakeBuffer
	}
	if sleep < w.cfg.SleepFloor {
		sleep = w.cfg.SleepFloor
	}
	if sleep > w.cfg.SleepCeiling {
		sleep = w.cfg.SleepCeiling
	}
	w.predictedWake = now.Add(sleep)

	w.mu.Unlock()

	if skewed {
		w.log.Warn("clock discontinuity detected; timeout detection suspended", map[string]interface{}{
			"recovery": w.cfg.SkewRecovery.String(),
		})
	}
	if len(expired) > 0 {
		sort.Strings(expired)
		w.log.Error("task deadline exceeded; process considered hung", map[string]interface{}{
			"tasks": strings.Join(expired, ","),
		})
		return sleep, nil
	}
	if heartbeatDue && w.emitter != nil {
		if err := w.emitter.Emit(); err != nil {
			return 0, err
		}
	}

	return sleep, nil
}
