package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level includes the ones below it.
type Level uint8

const (
	LevelOff     Level = iota // no tracing
	LevelError                // only failures
	LevelCommand              // command boundaries
	LevelJob                  // per-job search spans
	LevelDebug                // everything including single attempts
)

var levelNames = [...]string{"off", "error", "command", "job", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether an event of kind and scope passes l. Failures
// and heartbeats pass every level except off; other events pass when their
// scope is no finer than the level allows.
func (l Level) ShouldEmit(kind Kind, scope Scope) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindError || kind == KindHeartbeat:
		return true
	case l >= LevelDebug:
		return true
	case l == LevelJob:
		return scope <= ScopeJob
	case l == LevelCommand:
		return scope <= ScopeCommand
	}
	return false
}

// gate carries the level shared by every tracer implementation.
type gate struct{ level Level }

func (g gate) Level() Level          { return g.level }
func (g gate) Enabled() bool         { return g.level > LevelOff }
func (g gate) admits(ev *Event) bool { return g.level.ShouldEmit(ev.Kind, ev.Scope) }
