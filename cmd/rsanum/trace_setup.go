package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rsanum/internal/config"
	"rsanum/internal/trace"
)

// flagOr returns the named flag's value when the user set it, else fallback.
func flagOr(flags *pflag.FlagSet, name, fallback string) string {
	if !flags.Changed(name) {
		return fallback
	}
	v, _ := flags.GetString(name)
	return v
}

// setupTracing builds the tracer from the --trace flags, falling back to the
// [trace] table of rsanum.toml for flags left unset. It returns the tracer
// and a cleanup function.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()

	levelDefault := cfg.Trace.Level
	if flags.Changed("trace") && !cfg.IsSet("trace", "level") {
		// A bare --trace asks for command spans.
		levelDefault = "command"
	}
	level, err := trace.ParseLevel(flagOr(flags, "trace-level", levelDefault))
	if err != nil {
		return nil, nil, fmt.Errorf("--trace-level: %w", err)
	}
	if level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}
	mode, err := trace.ParseMode(flagOr(flags, "trace-mode", cfg.Trace.Mode))
	if err != nil {
		return nil, nil, fmt.Errorf("--trace-mode: %w", err)
	}

	tc := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: flagOr(flags, "trace", cfg.Trace.Output),
	}
	if tc.RingSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return nil, nil, err
	}
	if tc.Heartbeat, err = flags.GetDuration("trace-heartbeat"); err != nil {
		return nil, nil, err
	}
	if tc.OutputPath == "" || tc.OutputPath == "-" {
		tc.Output = cmd.ErrOrStderr()
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: %w", err)
	}
	hb := trace.StartHeartbeat(tracer, tc.Heartbeat)

	stderr := cmd.ErrOrStderr()
	return tracer, func() {
		hb.Stop()
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(stderr, "trace: flush: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close: %v\n", err)
		}
	}, nil
}
