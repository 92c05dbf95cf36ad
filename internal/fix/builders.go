package fix

import (
	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

func applyOptions(f *diag.Fix, opts []Option) *diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func quickFix(title string, edits ...diag.TextEdit) *diag.Fix {
	return &diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
}

// DeleteSpan removes text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) *diag.Fix {
	return applyOptions(quickFix(title, diag.TextEdit{
		Span:    span,
		OldText: expect,
	}), opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) *diag.Fix {
	return applyOptions(quickFix(title, diag.TextEdit{
		Span:    span,
		NewText: newText,
		OldText: expect,
	}), opts)
}

// Replacement builds the fix proposed by a style violation: the original
// text at span becomes replacement. An empty replacement deletes.
func Replacement(title string, span source.Span, original, replacement string, opts ...Option) *diag.Fix {
	if replacement == "" {
		return DeleteSpan(title, span, original, opts...)
	}
	return ReplaceSpan(title, span, replacement, original, opts...)
}
