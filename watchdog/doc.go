// Package watchdog detects frozen threads, requests, and loops inside a
// running process.
//
// # Overview
//
// A Watchdog is a registry of independently-named tasks, each carrying a
// refreshable deadline, monitored by one background loop. Healthy code
// keeps pinging; code that freezes stops pinging, its deadline elapses,
// and the watchdog enters a terminal timed-out state. It also stops the
// external UDP heartbeat, so an out-of-process supervisor — which owns
// the only reliable remedy, a restart — notices within its own timeout
// even if this process can no longer run a line of code.
//
// The watchdog never inspects or unblocks a hung task and never
// restarts the process itself; it only detects and reports.
//
// # Usage
//
// Host main loop:
//
//	wd, err := watchdog.New(watchdog.DefaultConfig(), logger, emitter)
//	if err != nil {
//	    return err
//	}
//	if err := wd.Start(); err != nil {
//	    return err
//	}
//
//	for !wd.IsTimedOut() && !sig.WaitForShutdownEvent(time.Second) {
//	    wd.Ping("mainLoop", 30*time.Second)
//	    doWork()
//	}
//	wd.Stop()
//
// Bounding a unit of work:
//
//	s := watchdog.NewScope(wd, "handleRequest", 5*time.Second)
//	defer s.Close()
//
// # Timeouts are terminal
//
// Once any task times out, IsTimedOut stays true and heartbeats stay
// silenced until the process restarts. There is deliberately no reset:
// a process that has proven it can hang is not trusted to recover.
//
// # Clock handling
//
// Deadlines are compared using the monotonic clock, so NTP and DST
// adjustments are invisible. Large discontinuities from system sleep or
// hibernation are detected separately: when the loop wakes far past its
// planned time, timeout detection is suspended for a recovery interval
// so stale deadlines do not fire spuriously.
package watchdog
