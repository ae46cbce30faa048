package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the interactive progress view of `rsanum prime`.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("--ui: %q is not one of auto, on, off", value)
}

// shouldUseTUI reports whether the progress view runs. Auto needs a terminal
// on stdin and stdout and is never used for quiet runs.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return !quiet && isTerminal(os.Stdout) && isTerminal(os.Stdin)
}
