package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the content of every file of a run. A FileID indexes the
// file slice; re-adding a path creates a new version and repoints the
// path index at it.
type FileSet struct {
	files   []File
	byPath  map[string]FileID
	baseDir string // относительные пути считаются от неё
}

// NewFileSet returns an empty set resolving relative paths against the
// working directory.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase returns an empty set whose relative paths are shown
// against base.
func NewFileSetWithBase(base string) *FileSet {
	return &FileSet{byPath: make(map[string]FileID), baseDir: base}
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the configured base, the working directory when unset.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers content under path and returns the new FileID.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: content too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	norm := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    norm,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags | detectFlags(content),
	})
	fs.byPath[norm] = id
	return id
}

// Load reads path from disk. Content is stored as read; a byte-order mark
// and CRLF breaks are only recorded in the flags.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from the file walk
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content, 0), nil
}

// AddVirtual registers in-memory content; fixes never write it back.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

func detectFlags(content []byte) FileFlags {
	var flags FileFlags
	if HasBOM(content) {
		flags |= FileHadBOM
	}
	if hasCRLF(content) {
		flags |= FileHasCRLF
	}
	return flags
}

// Get returns the file with the given ID, nil when unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Resolve converts span offsets into 1-based line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// OffsetOf converts a 1-based line and column reported by the tree producer
// into a byte offset of the stored content. The producer never sees the
// byte-order mark, so positions on the first line are moved past it.
func (fs *FileSet) OffsetOf(id FileID, pos LineCol) (uint32, error) {
	f := fs.Get(id)
	if f == nil {
		return 0, fmt.Errorf("unknown file id %d", id)
	}
	start, ok := lineStart(f.LineIdx, pos.Line)
	if !ok || pos.Col == 0 {
		return 0, fmt.Errorf("%s: position %d:%d is outside the file", f.Path, pos.Line, pos.Col)
	}
	off := start + pos.Col - 1
	if pos.Line == 1 && f.HasBOM() {
		off += uint32(len(BOM))
	}
	if int(off) > len(f.Content) {
		return 0, fmt.Errorf("%s: position %d:%d is outside the file", f.Path, pos.Line, pos.Col)
	}
	return off, nil
}

// GetLine returns a 1-based line without its '\n', "" past the end.
func (f *File) GetLine(line uint32) string {
	start, ok := lineStart(f.LineIdx, line)
	if !ok || int(start) > len(f.Content) {
		return ""
	}
	end := uint32(len(f.Content)) //nolint:gosec // bounded in Add
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return string(f.Content[start:end])
}

// ChangedOnDisk reports whether the file at Path no longer holds the
// content that was loaded.
func (f *File) ChangedOnDisk() (bool, error) {
	if f.Flags&FileVirtual != 0 {
		return false, nil
	}
	data, err := os.ReadFile(f.Path) // #nosec G304 -- path was loaded earlier
	if err != nil {
		return false, err
	}
	return sha256.Sum256(data) != f.Hash, nil
}

// FormatPath renders Path for output. Modes: "absolute", "relative"
// (against base, the working directory when empty), "basename" and "auto"
// which keeps short or relative paths and shortens long absolute ones.
func (f *File) FormatPath(mode, base string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if base == "" {
			base, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, base); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
