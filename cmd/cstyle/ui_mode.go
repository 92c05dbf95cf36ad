package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cstyle/internal/diagfmt"
)

// uiMode is the value of --ui. As a flag value it is validated while cobra
// parses the command line.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func (m *uiMode) String() string {
	if *m == "" {
		return string(uiModeAuto)
	}
	return string(*m)
}

func (m *uiMode) Set(value string) error {
	v, err := readUIMode(value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (*uiMode) Type() string { return "auto|on|off" }

// uiModeFlag returns the parsed --ui value of cmd, auto when unset.
func uiModeFlag(cmd *cobra.Command) uiMode {
	if f := cmd.Flags().Lookup("ui"); f != nil {
		if m, ok := f.Value.(*uiMode); ok && *m != "" {
			return *m
		}
	}
	return uiModeAuto
}

// wantsTUI decides on the progress view. The view draws on stderr, so auto
// needs stderr to be a terminal; json, sarif and short output as well as
// --quiet keep it off in auto mode so nothing is mixed into piped results.
func (m uiMode) wantsTUI(format diagfmt.Format, quiet, stderrTTY bool) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return format == diagfmt.FormatPretty && !quiet && stderrTTY
}
