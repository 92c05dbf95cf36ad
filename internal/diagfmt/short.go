package diagfmt

import (
	"fmt"
	"io"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// Short prints one line per diagnostic:
// <SEV> <CODE> <path>:<line>:<col> <message>
func Short(w io.Writer, diags []*diag.Diagnostic, fs *source.FileSet) error {
	out := diag.FormatShortDiagnostics(diags, fs, false)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
