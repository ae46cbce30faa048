package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off":     LevelOff,
		"ERROR":   LevelError,
		"command": LevelCommand,
		"Job":     LevelJob,
		"debug":   LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
		if want != LevelOff && !strings.EqualFold(got.String(), in) {
			t.Errorf("Level.String() = %q, want %q", got.String(), in)
		}
	}
	if _, err := ParseLevel("phase"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindError, ScopeCommand, false},
		{LevelError, KindError, ScopeAttempt, true},
		{LevelError, KindSpanBegin, ScopeCommand, false},
		{LevelCommand, KindSpanBegin, ScopeCommand, true},
		{LevelCommand, KindSpanBegin, ScopeJob, false},
		{LevelJob, KindSpanEnd, ScopeJob, true},
		{LevelJob, KindPoint, ScopeAttempt, false},
		{LevelDebug, KindPoint, ScopeAttempt, true},
		{LevelCommand, KindHeartbeat, ScopeCommand, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.kind, tc.scope); got != tc.want {
			t.Errorf("%v.ShouldEmit(%v, %v) = %v, want %v", tc.level, tc.kind, tc.scope, got, tc.want)
		}
	}
}

func TestSpanNesting(t *testing.T) {
	ring := NewRingTracer(16, LevelJob)
	root := Begin(ring, ScopeCommand, "prime", 0)
	job := Begin(ring, ScopeJob, "job:0", root.ID())
	Point(ring, ScopeAttempt, "candidate", "#1", job.ID())
	job.WithExtra("attempts", "7").End("")
	root.End("ok")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[1].ParentID != events[0].SpanID {
		t.Errorf("job parent = %d, want %d", events[1].ParentID, events[0].SpanID)
	}
	if events[2].Kind != KindSpanEnd || events[2].Extra["attempts"] != "7" {
		t.Errorf("job end = %+v", events[2])
	}
	if events[3].Detail != "ok" {
		t.Errorf("root end detail = %q", events[3].Detail)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Errorf("sequence not increasing at %d", i)
		}
	}
}

func TestInertSpanPassesParent(t *testing.T) {
	ring := NewRingTracer(16, LevelCommand)
	root := Begin(ring, ScopeCommand, "prime", 0)
	job := Begin(ring, ScopeJob, "job:0", root.ID())
	if job.ID() != root.ID() {
		t.Errorf("filtered span ID = %d, want parent %d", job.ID(), root.ID())
	}
	if d := job.WithExtra("k", "v").End(""); d != 0 {
		t.Errorf("inert span duration = %v", d)
	}
	Fail(ring, ScopeJob, "job:0", errors.New("boom"), job.ID())

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Kind != KindError || events[1].Detail != "boom" {
		t.Errorf("error event = %+v", events[1])
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		Point(ring, ScopeCommand, "p", string(rune('a'+i)), 0)
	}
	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	got := events[0].Detail + events[1].Detail + events[2].Detail
	if got != "cde" {
		t.Errorf("ring order = %q, want cde", got)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Errorf("dump has %d lines, want 3", n)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelJob, FormatNDJSON)
	s := Begin(st, ScopeJob, "job:2", 0)
	s.WithExtra("bits", "64").End("")
	Point(st, ScopeAttempt, "candidate", "#1", 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev["kind"] != "end" || ev["scope"] != "job" || ev["name"] != "job:2" {
		t.Errorf("unexpected event %v", ev)
	}
	extra, _ := ev["extra"].(map[string]any)
	if extra["bits"] != "64" {
		t.Errorf("extra = %v", ev["extra"])
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{
		Time:  processStart.Add(1500 * time.Microsecond),
		Kind:  KindSpanEnd,
		Name:  "job:1",
		Extra: map[string]string{"z": "1", "a": "2", "m": "3"},
	}
	line := string(FormatEvent(ev, FormatText))
	if !strings.Contains(line, "1.500ms") {
		t.Errorf("missing elapsed: %q", line)
	}
	if !strings.HasSuffix(line, "job:1 {a=2, m=3, z=1}\n") {
		t.Errorf("unexpected line %q", line)
	}
}

func TestNewFromConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off tracer: %v enabled=%v", err, tr.Enabled())
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelJob, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeCommand, "cmd", 0).End("")
	if RingOf(tr) == nil || len(RingOf(tr).Snapshot()) != 2 {
		t.Error("ring side of ModeBoth did not record")
	}
	if !strings.Contains(buf.String(), "cmd") {
		t.Errorf("stream side wrote %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := New(Config{Level: LevelJob}); err == nil {
		t.Error("expected error for missing mode")
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelCommand)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Error("tracer not propagated")
	}
	s := Begin(ring, ScopeCommand, "x", 0)
	ctx = WithParent(ctx, s)
	if ParentFrom(ctx) != s.ID() {
		t.Errorf("ParentFrom = %d, want %d", ParentFrom(ctx), s.ID())
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat on disabled tracer")
	}
	ring := NewRingTracer(64, LevelCommand)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	events := ring.Snapshot()
	if len(events) == 0 || events[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded: %+v", events)
	}
}
