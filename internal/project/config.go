// Package project locates and loads cstyle.toml.
package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cstyle/internal/diag"
)

// Config is the decoded cstyle.toml. Zero values are never seen by callers:
// Load starts from Default and only overrides what the file sets.
type Config struct {
	// Path of the file the config was read from, "" for defaults.
	Path string `toml:"-"`

	Producer ProducerConfig    `toml:"producer"`
	Lint     LintConfig        `toml:"lint"`
	Severity map[string]string `toml:"severity"`
}

type ProducerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Timeout Duration `toml:"timeout"`
	Cache   bool     `toml:"cache"`
}

type LintConfig struct {
	Jobs                   int      `toml:"jobs"`
	IndentWidth            int      `toml:"indent_width"`
	MaxParameters          int      `toml:"max_parameters"`
	MaxParameterListLength int      `toml:"max_parameter_list_length"`
	StarCommentAlignment   bool     `toml:"star_comment_alignment"`
	Disabled               []string `toml:"disabled"`
}

// Duration accepts Go duration strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultProducer is the executable run when the config names none.
const DefaultProducer = "csast"

// Default returns the configuration used without a cstyle.toml.
func Default() *Config {
	return &Config{
		Producer: ProducerConfig{
			Command: DefaultProducer,
			Timeout: Duration{30 * time.Second},
			Cache:   true,
		},
		Lint: LintConfig{
			IndentWidth:            4,
			MaxParameters:          2,
			MaxParameterListLength: 60,
		},
	}
}

// Load reads path on top of the defaults. Keys the config does not know
// about are an error, as are malformed severities.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds cstyle.toml above startDir and loads it. Without a file the
// defaults are returned.
func Discover(startDir string) (*Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Producer.Command) == "" {
		return fmt.Errorf("[producer].command is empty")
	}
	if c.Producer.Timeout.Duration < 0 {
		return fmt.Errorf("[producer].timeout must not be negative")
	}
	if c.Lint.Jobs < 0 {
		return fmt.Errorf("[lint].jobs must not be negative")
	}
	if c.Lint.IndentWidth <= 0 {
		return fmt.Errorf("[lint].indent_width must be positive")
	}
	if c.Lint.MaxParameters < 0 || c.Lint.MaxParameterListLength < 0 {
		return fmt.Errorf("[lint] parameter thresholds must not be negative")
	}
	_, err := c.SeverityOverrides()
	return err
}

// SeverityOverrides merges [severity] and [lint].disabled into one map keyed
// by composite or bare policy code. A code listed in disabled wins.
func (c *Config) SeverityOverrides() (map[string]diag.Severity, error) {
	out := make(map[string]diag.Severity, len(c.Severity)+len(c.Lint.Disabled))
	for code, name := range c.Severity {
		sev, err := diag.ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("[severity].%s: %w", code, err)
		}
		out[strings.ToUpper(strings.TrimSpace(code))] = sev
	}
	for _, code := range c.Lint.Disabled {
		out[strings.ToUpper(strings.TrimSpace(code))] = diag.SevDisabled
	}
	return out, nil
}

// Dir returns the directory of the config file, or "" for defaults.
func (c *Config) Dir() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}
