package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rsanum/internal/config"
	"rsanum/internal/observ"
	"rsanum/internal/trace"
)

// session is the per-invocation state built by the root PersistentPreRunE.
type session struct {
	cfg     config.Config
	base    string
	quiet   bool
	timings bool
	timer   *observ.Timer
	tracer  trace.Tracer
	span    *trace.Span
	cleanup func()
	profile func() error
}

type holderKey struct{}

// sessionHolder lets run close the session after cobra returns, including on
// failure when PersistentPostRun is skipped.
type sessionHolder struct {
	s *session
}

func withSessionHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

func holderFrom(ctx context.Context) *sessionHolder {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(holderKey{}).(*sessionHolder)
	return h
}

// sessionOf returns the active session; commands run without PersistentPreRunE
// (direct tests) get defaults.
func sessionOf(cmd *cobra.Command) *session {
	if h := holderFrom(cmd.Context()); h != nil && h.s != nil {
		return h.s
	}
	return &session{cfg: config.Default(), base: "hex", tracer: trace.Nop}
}

func startSession(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = color.NoColor || !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s := &session{cfg: cfg, base: cfg.Output.Format}
	if flags.Changed("base") {
		s.base, _ = flags.GetString("base")
		s.base = strings.ToLower(s.base)
		if s.base != "hex" && s.base != "dec" {
			return fmt.Errorf("invalid --base value %q (expected hex|dec)", s.base)
		}
	}
	s.quiet, _ = flags.GetBool("quiet")
	s.timings, _ = flags.GetBool("timings")
	if s.timings {
		s.timer = observ.NewTimer()
	}

	if s.profile, err = setupProfiling(cmd); err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		if s.profile != nil {
			_ = s.profile()
		}
		return err
	}
	s.tracer = tracer
	s.cleanup = cleanup
	s.span = trace.Begin(tracer, trace.ScopeCommand, cmd.CommandPath(), 0)

	ctx := trace.WithParent(trace.WithTracer(cmd.Context(), tracer), s.span)
	cmd.SetContext(ctx)

	if h := holderFrom(ctx); h != nil {
		h.s = s
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.Discover(".")
	return cfg, err
}

// close ends the command span, prints timings and releases the tracer. When
// the command failed and a ring buffer is active, its contents go to w.
func (h *sessionHolder) close(cmdErr error, w io.Writer) {
	if h == nil || h.s == nil {
		return
	}
	s := h.s
	h.s = nil

	if cmdErr != nil && !errors.As(cmdErr, new(*exitError)) {
		trace.Fail(s.tracer, trace.ScopeCommand, "command", cmdErr, s.span.ID())
		s.span.End("failed")
		if ring := trace.RingOf(s.tracer); ring != nil {
			fmt.Fprintln(w, "trace ring (most recent last):")
			if err := ring.Dump(w, trace.FormatText); err != nil {
				fmt.Fprintf(w, "trace: dump error: %v\n", err)
			}
		}
	} else {
		s.span.End("")
	}

	if s.timings {
		printTimings(w, s.timer)
	}
	if s.cleanup != nil {
		s.cleanup()
	}
	if s.profile != nil {
		if err := s.profile(); err != nil {
			fmt.Fprintf(w, "profile: %v\n", err)
		}
	}
}
