package watchdog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scope bounds a unit of work with a watchdog timeout: constructing it
// registers a task, closing it releases the task. If the work outlives
// its timeout without the scope being closed, the watchdog declares the
// process hung.
//
// Typical use in a request handler:
//
//	s := watchdog.NewScope(wd, "handleRequest", 5*time.Second)
//	defer s.Close()
type Scope struct {
	wd   *Watchdog
	name string
	once sync.Once
}

// NewScope registers a timeout under base plus a unique token, so
// concurrent overlapping scopes may share a base name without
// colliding.
func NewScope(wd *Watchdog, base string, timeout time.Duration) *Scope {
	return newScope(wd, base+"-"+uuid.NewString(), timeout)
}

// NewNamedScope registers a timeout under exactly name. The caller must
// guarantee that no two live scopes share it.
func NewNamedScope(wd *Watchdog, name string, timeout time.Duration) *Scope {
	return newScope(wd, name, timeout)
}

func newScope(wd *Watchdog, name string, timeout time.Duration) *Scope {
	wd.Ping(name, timeout)
	return &Scope{wd: wd, name: name}
}

// Name returns the registered task name, including any uniqueness
// token.
func (s *Scope) Name() string {
	return s.name
}

// Close releases the timeout. Calling Close more than once has no
// additional effect.
func (s *Scope) Close() {
	s.once.Do(func() {
		s.wd.CloseTimeout(s.name)
	})
}
