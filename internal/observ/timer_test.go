package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTimerSteps(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(idx, "2 args")
	err := tm.Time("search", func() error { return errors.New("boom") })
	if err == nil || err.Error() != "boom" {
		t.Fatalf("Time returned %v", err)
	}
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(r.Steps))
	}
	if r.Steps[0].Name != "parse" || r.Steps[0].Note != "2 args" || r.Steps[0].DurationMS <= 0 {
		t.Errorf("first step = %+v", r.Steps[0])
	}
	if r.Steps[1].Note != "failed" {
		t.Errorf("failed step note = %q", r.Steps[1].Note)
	}
	if r.TotalMS < r.Steps[0].DurationMS {
		t.Errorf("total %.3f below first step %.3f", r.TotalMS, r.Steps[0].DurationMS)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "parse", "// 2 args", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Steps) != 0 {
		t.Errorf("nil timer report = %+v", r)
	}
}
