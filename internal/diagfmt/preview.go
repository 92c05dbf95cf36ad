package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// fixEditPreview is the block of whole lines an edit touches, before and
// after applying it. Line breaks are stripped, \r\n included.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("file too large for preview: %w", err)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > size {
		return fixEditPreview{}, fmt.Errorf("edit span %d..%d outside of %s", edit.Span.Start, edit.Span.End, file.Path)
	}

	from := blockStart(file, edit.Span.Start)
	to := blockEnd(file, edit.Span.End, size)
	block := file.Content[from:to]

	after := make([]byte, 0, len(block)+len(edit.NewText))
	after = append(after, file.Content[from:edit.Span.Start]...)
	after = append(after, edit.NewText...)
	after = append(after, file.Content[edit.Span.End:to]...)

	return fixEditPreview{
		before: splitPreviewLines(block),
		after:  splitPreviewLines(after),
	}, nil
}

// blockStart is the offset of the line containing off.
func blockStart(f *source.File, off uint32) uint32 {
	start := uint32(0)
	for _, nl := range f.LineIdx {
		if nl >= off {
			break
		}
		start = nl + 1
	}
	return start
}

// blockEnd is the offset just past the line break ending the line of off,
// or size on the last line.
func blockEnd(f *source.File, off, size uint32) uint32 {
	for _, nl := range f.LineIdx {
		if nl >= off {
			return nl + 1
		}
	}
	return size
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	return strings.Split(text, "\n")
}
