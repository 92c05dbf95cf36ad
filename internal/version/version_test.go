package version

import (
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = " 1.2.3 "
	GitCommit = "abc123def456\n"
	BuildDate = ""
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "" {
		t.Fatalf("Current() = %+v", info)
	}

	Version = ""
	if got := Current().Version; got != "dev" {
		t.Fatalf("empty Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		plain   string
	}{
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"1.2.3", true, "1.2.3"},
		{"1.0.0-beta.1", true, "1.0.0-beta.1"},
		{"dev", true, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Colored(tt.in, tt.enabled)
			if stripANSI(got) != tt.plain {
				t.Fatalf("Colored(%q) = %q", tt.in, got)
			}
			colored := strings.Contains(got, "\x1b[")
			wantColor := tt.enabled && strings.Count(tt.plain, ".") >= 2
			if colored != wantColor {
				t.Fatalf("Colored(%q, %v) escape codes = %v", tt.in, tt.enabled, colored)
			}
		})
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
