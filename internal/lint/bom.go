package lint

import (
	"cstyle/internal/diag"
	"cstyle/internal/source"
)

const bomMessage = "All files are stored in ASCII, so the BOM is not permitted."

// checkBOM flags a leading byte-order mark and returns the offset shift every
// later report of the file needs. The producer strips the mark, so its
// offsets are 3 bytes short of the stored content.
func (c *Context) checkBOM(f *source.File) (uint32, error) {
	if f == nil || !source.HasBOM(f.Content) {
		return 0, nil
	}
	original := string(f.Content[:len(source.BOM)])
	if err := c.raise(diag.CodeBOM, 0, 0, bomMessage, original, ""); err != nil {
		return 0, err
	}
	return uint32(len(source.BOM)), nil
}
