package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks content that starts with a UTF-8 byte-order mark.
	// The mark stays in Content; offsets reported by the tree producer are
	// relative to the text after it.
	FileHadBOM
	// FileHasCRLF marks content using \r\n line breaks.
	FileHasCRLF
)

// File captures metadata and content for a single source file.
// Content is kept byte-for-byte as read so that fixes apply to the real file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// HasBOM reports whether the file started with a byte-order mark.
func (f *File) HasBOM() bool {
	return f.Flags&FileHadBOM != 0
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
