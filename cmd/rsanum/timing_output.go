package main

import (
	"fmt"
	"io"

	"rsanum/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if len(timer.Report().Steps) == 0 {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}

// step times fn as a named step of the session timer.
func (s *session) step(name string, fn func() error) error {
	if s.timer == nil {
		return fn()
	}
	return s.timer.Time(name, fn)
}
