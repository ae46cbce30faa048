package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rsanum/internal/bignum"
)

var (
	labelColor = color.New(color.FgCyan)
	noteColor  = color.New(color.Faint)
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

// formatNumber renders v in the session base: 0x-prefixed hex or decimal.
// Both forms parse back through parseNumber.
func formatNumber(v bignum.BigInt, base string) string {
	if base == "dec" {
		return v.Text(10)
	}
	text, _ := v.MarshalText()
	return string(text)
}

type field struct {
	name  string
	value string
}

// printFields writes one "name  value" line per field with the names padded
// to a common display width. A single field is printed bare.
func printFields(w io.Writer, fields []field) {
	if len(fields) == 1 {
		fmt.Fprintln(w, fields[0].value)
		return
	}
	width := 0
	for _, f := range fields {
		width = max(width, runewidth.StringWidth(f.name))
	}
	for _, f := range fields {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(f.name))
		fmt.Fprintf(w, "%s%s  %s\n", labelColor.Sprint(f.name), pad, f.value)
	}
}

// note writes a status line to w unless the session is quiet.
func (s *session) note(w io.Writer, format string, args ...any) {
	if s.quiet {
		return
	}
	noteColor.Fprintf(w, format+"\n", args...)
}
