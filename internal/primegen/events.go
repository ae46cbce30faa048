package primegen

import (
	"time"

	"rsanum/internal/bignum"
)

// Status captures the state of one search job.
type Status string

const (
	// StatusQueued indicates the job is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the job is drawing candidates.
	StatusWorking Status = "working"
	// StatusDone indicates the job found its prime.
	StatusDone Status = "done"
	// StatusError indicates the job failed.
	StatusError Status = "error"
	// StatusCanceled indicates the job stopped because the run was canceled.
	StatusCanceled Status = "canceled"
)

// Event reports progress for one job.
type Event struct {
	Job      int
	Bits     int
	Status   Status
	Attempts int
	Pooled   bool          // prime came from the pool, no search ran
	Prime    bignum.BigInt // set with StatusDone
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent sends evt, blocking until the receiver takes it.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

// OnEvent calls f(evt).
func (f SinkFunc) OnEvent(evt Event) { f(evt) }
