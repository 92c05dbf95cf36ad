package lint

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"cstyle/internal/diag"
	"cstyle/internal/fix"
	"cstyle/internal/indent"
	"cstyle/internal/source"
	"cstyle/internal/symbols"
	"cstyle/internal/syntax"
)

// Options are the tunables policies read from the context.
type Options struct {
	IndentWidth            int
	MaxParameters          int
	MaxParameterListLength int
	// StarCommentAlignment accepts block-comment lines whose '*' sits one
	// column past the expected indentation.
	StarCommentAlignment bool
}

// DefaultOptions matches the built-in thresholds.
func DefaultOptions() Options {
	return Options{
		IndentWidth:            indent.DefaultWidth,
		MaxParameters:          2,
		MaxParameterListLength: 60,
	}
}

// Context is handed to every policy call for one file. It is owned by a
// single traversal and must not be shared between goroutines.
type Context struct {
	ctx      context.Context
	path     string // key of the tree in the producer forest
	files    *source.FileSet
	file     source.FileID
	shift    uint32
	indent   *indent.Calculator
	symbols  *symbols.Cache
	opts     Options
	catalog  *Catalog
	reporter diag.Reporter
	policy   Policy
	reported int
}

// Path returns the tree path being analyzed.
func (c *Context) Path() string { return c.path }

// Context returns the context of the run.
func (c *Context) Context() context.Context { return c.ctx }

// Shift returns the global offset shift of the file, +3 after a BOM.
func (c *Context) Shift() uint32 { return c.shift }

// Indent returns the indentation calculator.
func (c *Context) Indent() *indent.Calculator { return c.indent }

// Symbols returns the class index cache of the run.
func (c *Context) Symbols() *symbols.Cache { return c.symbols }

// Options returns the policy tunables.
func (c *Context) Options() Options { return c.opts }

// Reported returns how many diagnostics were raised so far in this file.
func (c *Context) Reported() int { return c.reported }

// RaiseAtOffset reports sub-code sub of the current policy at a producer
// offset. The file's global shift is added before the offset is stored.
func (c *Context) RaiseAtOffset(sub, offset int, msg, original, replacement string) error {
	if c.policy == nil {
		return fmt.Errorf("%s: raise outside of a policy call", c.path)
	}
	return c.raise(diag.Compose(c.policy.Code(), sub), offset, c.shift, msg, original, replacement)
}

// RaiseAt reports at the start of a node or token.
func (c *Context) RaiseAt(el syntax.Element, sub int, msg, original, replacement string) error {
	return c.RaiseAtOffset(sub, el.Offset(), msg, original, replacement)
}

// RaiseAtLine reports at a 1-based line/column position. The conversion to
// an offset accounts for a BOM on the first line.
func (c *Context) RaiseAtLine(sub int, pos syntax.Position, msg, original, replacement string) error {
	if c.policy == nil {
		return fmt.Errorf("%s: raise outside of a policy call", c.path)
	}
	line, err := safecast.Conv[uint32](pos.Line)
	if err != nil {
		return fmt.Errorf("%s: line %d: %w", c.path, pos.Line, err)
	}
	col, err := safecast.Conv[uint32](pos.Character)
	if err != nil {
		return fmt.Errorf("%s: column %d: %w", c.path, pos.Character, err)
	}
	off, err := c.files.OffsetOf(c.file, source.LineCol{Line: line, Col: col})
	if err != nil {
		return err
	}
	return c.raise(diag.Compose(c.policy.Code(), sub), int(off), 0, msg, original, replacement)
}

func (c *Context) raise(code diag.Code, offset int, shift uint32, msg, original, replacement string) error {
	sev := c.catalog.Severity(code)
	if !sev.Enabled() {
		return nil
	}
	start, err := safecast.Conv[uint32](offset)
	if err != nil {
		return fmt.Errorf("%s: %s at offset %d: %w", c.path, code, offset, err)
	}
	length, err := safecast.Conv[uint32](len(original))
	if err != nil {
		return fmt.Errorf("%s: %s original text: %w", c.path, code, err)
	}
	span := source.SpanOf(c.file, start+shift, length)

	b := diag.NewReportBuilder(c.reporter, sev, code, span, msg)
	if original != "" || replacement != "" {
		app := diag.FixApplicabilityAlwaysSafe
		if fc, ok := c.policy.(FixClassifier); ok {
			_, sub, _ := code.Split()
			app = fc.FixApplicability(sub)
		}
		b.WithFixSuggestion(fix.Replacement(c.catalog.Name(code), span, original, replacement, fix.WithApplicability(app)))
	}
	b.Emit()
	c.reported++
	return nil
}
