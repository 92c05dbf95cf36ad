package diag

import "cstyle/internal/source"

// Reporter receives the diagnostics raised by policies.
type Reporter interface {
	Report(d *Diagnostic)
}

// BagReporter stores reports in Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(*Diagnostic) {}

// ReportBuilder assembles one diagnostic and hands it to a Reporter on Emit.
// Methods are nil-safe so a disabled code can return a nil builder.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithNote(sp, msg)
	}
	return b
}

// WithReplacement attaches an always-safe original -> replacement fix over
// the primary span.
func (b *ReportBuilder) WithReplacement(title, original, replacement string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithFixSuggestion(ReplaceFix(title, b.diag.Primary, original, replacement))
	}
	return b
}

func (b *ReportBuilder) WithFixSuggestion(fix *Fix) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithFixSuggestion(fix)
	}
	return b
}

// Emit reports the diagnostic once; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted || b.reporter == nil {
		return
	}
	b.emitted = true
	d := b.diag
	b.reporter.Report(&d)
}
