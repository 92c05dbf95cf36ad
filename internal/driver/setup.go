package driver

import (
	"cstyle/internal/lint"
	"cstyle/internal/producer"
	"cstyle/internal/project"
)

// CacheApp names the directory of the tree cache under the user cache dir.
const CacheApp = "cstyle"

// OpenSource resolves the configured producer and wraps it in the disk
// cache when enabled. A missing producer is producer.ErrUnavailable. A cache
// that cannot be opened degrades to running the producer every time.
func OpenSource(cfg project.ProducerConfig, useCache bool) (producer.Source, error) {
	exe, err := producer.NewExecSource(cfg.Command, cfg.Args, cfg.Timeout.Duration)
	if err != nil {
		return nil, err
	}
	if !useCache || !cfg.Cache {
		return exe, nil
	}
	cache, err := producer.OpenDiskCache(CacheApp)
	if err != nil {
		return exe, nil
	}
	return producer.NewCachedSource(exe, cache, exe.Identity()), nil
}

// LintOptions converts the [lint] table to policy tunables.
func LintOptions(cfg project.LintConfig) lint.Options {
	opts := lint.DefaultOptions()
	if cfg.IndentWidth > 0 {
		opts.IndentWidth = cfg.IndentWidth
	}
	if cfg.MaxParameters > 0 {
		opts.MaxParameters = cfg.MaxParameters
	}
	if cfg.MaxParameterListLength > 0 {
		opts.MaxParameterListLength = cfg.MaxParameterListLength
	}
	opts.StarCommentAlignment = cfg.StarCommentAlignment
	return opts
}
