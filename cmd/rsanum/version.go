package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rsanum/internal/version"
)

const versionTagline = "big numbers, small primes, exact answers"

// versionPayload is what `rsanum version --format=json` prints. Optional
// build fields stay empty unless requested.
type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	var (
		format                string
		hash, msg, date, full bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show rsanum build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			render, ok := versionRenderers[strings.ToLower(format)]
			if !ok {
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
			cur := version.Current()
			p := versionPayload{
				Tool:    "rsanum",
				Tagline: versionTagline,
				Info: version.Info{
					Version:   cmp.Or(strings.TrimSpace(cur.Version), "dev"),
					GoVersion: cur.GoVersion,
				},
			}
			if hash || full {
				p.GitCommit = orUnknown(cur.GitCommit)
			}
			if msg || full {
				p.GitMessage = orUnknown(cur.GitMessage)
			}
			if date || full {
				p.BuildDate = orUnknown(cur.BuildDate)
			}
			return render(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().BoolVar(&hash, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&msg, "message", false, "include git commit message")
	cmd.Flags().BoolVar(&date, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&full, "full", false, "show all recorded build metadata")
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

var versionRenderers = map[string]func(io.Writer, versionPayload) error{
	"pretty": func(w io.Writer, p versionPayload) error {
		v := p.Version
		if v == version.Version {
			v = version.Styled()
		}
		fmt.Fprintf(w, "%s %s (%s): %s\n", p.Tool, v, p.GoVersion, p.Tagline)
		for _, f := range []field{{"commit", p.GitCommit}, {"message", p.GitMessage}, {"built", p.BuildDate}} {
			if f.value != "" {
				fmt.Fprintf(w, "%-8s %s\n", f.name+":", f.value)
			}
		}
		return nil
	},
	"json": func(w io.Writer, p versionPayload) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func orUnknown(s string) string {
	return cmp.Or(strings.TrimSpace(s), "unknown")
}
