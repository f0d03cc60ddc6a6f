// Package shutdown detects supervisor-initiated shutdown requests.
//
// # Overview
//
// The supervisor asks a monitored process to exit by asserting a named,
// manually-reset signal that both processes can reach. The process's
// main loop checks the signal between iterations; seeing it asserted,
// the loop falls through to its normal shutdown path. If shutdown then
// hangs, the supervisor's own heartbeat timeout takes over and the
// process is force-restarted — this package only covers the cooperative
// half of that contract.
//
// The signal is level-triggered: waiting on it never clears it, so a
// standing request is observed by every subsequent check without being
// re-asserted.
//
// # Usage
//
//	sig := shutdown.NewFileSignal(shutdown.FileConfig{
//	    Name: os.Getenv("WATCHKIT_SHUTDOWN_EVENT"),
//	})
//
//	for !wd.IsTimedOut() && !sig.WaitForShutdownEvent(time.Second) {
//	    wd.Ping("mainLoop", 30*time.Second)
//	    doWork()
//	}
//	wd.Stop()
//
// With no identifier configured, WaitForShutdownEvent degrades to a
// plain bounded sleep returning false, so the loop shape stays the same.
package shutdown
