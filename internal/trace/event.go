package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // start of a span
	KindSpanEnd                   // end of a span, carries the extras
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
	KindError                     // failure report
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "heartbeat", "error"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; coarser scopes have lower values.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI invocation or library call
	ScopeJob                      // one prime search job
	ScopeAttempt                  // one candidate draw
)

var scopeNames = [...]string{"unknown", "command", "job", "attempt"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, increasing
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points, errors and heartbeats
	ParentID uint64 // 0 at the root
	GID      uint64 // emitting goroutine
	Name     string // "rsanum prime", "primegen", "job:3"
	Detail   string
	Extra    map[string]string
}
