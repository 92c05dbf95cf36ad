package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of files picked up from directories.
const SourceExt = ".cs"

// skipDirs are build output and VCS directories never worth linting.
var skipDirs = map[string]struct{}{
	".git": {},
	".vs":  {},
	"bin":  {},
	"obj":  {},
}

// ListFiles expands paths into a sorted, de-duplicated list of files.
// Directories are walked for *.cs files; explicit file arguments are kept
// whatever their extension.
func ListFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if _, skip := skipDirs[d.Name()]; skip && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), SourceExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}
