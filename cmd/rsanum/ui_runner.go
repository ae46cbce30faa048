package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"rsanum/internal/primegen"
	"rsanum/internal/ui"
)

type generateOutcome struct {
	result *primegen.Result
	err    error
}

// runPrimeWithUI runs Generate in the background and renders its events with
// the progress view until the run finishes or the user quits.
func runPrimeWithUI(ctx context.Context, out io.Writer, title string, req primegen.Request) (*primegen.Result, error) {
	events := make(chan primegen.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		reqCopy := req
		reqCopy.Progress = primegen.ChannelSink{Ch: events}
		res, err := primegen.Generate(ctx, reqCopy)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, max(req.Count, 1), events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()

	var outcome generateOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// the view quit early (ctrl-c): stop the jobs and drain their events
		cancel()
		for range events {
		}
		outcome = <-outcomeCh
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
