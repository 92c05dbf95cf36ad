package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigName is the file Discover looks for.
const ConfigName = "cstyle.toml"

// FindConfig returns the nearest cstyle.toml in start or one of its
// ancestors. start may name a file, its directory is used then.
func FindConfig(start string) (string, bool, error) {
	dir, err := searchDir(start)
	if err != nil {
		return "", false, err
	}
	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ConfigName)
		switch _, err := os.Stat(candidate); {
		case err == nil:
			return candidate, true, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}

func searchDir(start string) (string, error) {
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}
