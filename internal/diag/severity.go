package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevDisabled suppresses the diagnostic entirely.
	SevDisabled Severity = iota
	// SevAdvice is a hint that is shown but never fails a run.
	SevAdvice
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevDisabled:
		return "DISABLED"
	case SevAdvice:
		return "ADVICE"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lower-case name used in config files and short output.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// Enabled reports whether diagnostics of this severity are reported at all.
func (s Severity) Enabled() bool {
	return s != SevDisabled
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disabled", "off", "none":
		return SevDisabled, nil
	case "advice", "hint":
		return SevAdvice, nil
	case "info":
		return SevInfo, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevDisabled, fmt.Errorf("unknown severity %q (want error|warning|info|advice|disabled)", name)
}
