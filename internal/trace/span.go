package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next process-wide sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// goroutineID reads the current goroutine's ID from the first line of
// runtime.Stack ("goroutine 123 [running]:"). It returns 0 if that fails.
func goroutineID() uint64 {
	var buf [64]byte
	line := string(buf[:runtime.Stack(buf[:], false)])
	fields := strings.Fields(strings.TrimPrefix(line, "goroutine "))
	if len(fields) == 0 {
		return 0
	}
	id, _ := strconv.ParseUint(fields[0], 10, 64)
	return id
}

// send stamps ev and hands it to t.
func send(t Tracer, ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	ev.Seq = NextSeq()
	if ev.GID == 0 {
		ev.GID = goroutineID()
	}
	t.Emit(&ev)
}

// Span is one traced operation. Spans the tracer's level filters out are
// inert: End and WithExtra do nothing and ID passes the parent through.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(KindSpanBegin, scope) {
		return &Span{parent: parent}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	send(t, Event{
		Time: s.started, Kind: KindSpanBegin, Scope: scope,
		SpanID: s.id, ParentID: parent, GID: s.gid, Name: name,
	})
	return s
}

// End closes the span with an optional detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	d := time.Since(s.started)
	send(s.tracer, Event{
		Kind: KindSpanEnd, Scope: s.scope, SpanID: s.id, ParentID: s.parent,
		GID: s.gid, Name: s.name, Detail: detail, Extra: s.extra,
	})
	return d
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// ID is the span's ID, or the parent's for an inert span so that children
// attach to the nearest recorded ancestor.
func (s *Span) ID() uint64 {
	switch {
	case s == nil:
		return 0
	case s.id == 0:
		return s.parent
	}
	return s.id
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(KindPoint, scope) {
		return
	}
	send(t, Event{Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
}

// Fail records err under parent. Errors pass every level except off.
func Fail(t Tracer, scope Scope, name string, err error, parent uint64) {
	if t == nil || !t.Enabled() || err == nil {
		return
	}
	send(t, Event{Kind: KindError, Scope: scope, ParentID: parent, Name: name, Detail: err.Error()})
}
