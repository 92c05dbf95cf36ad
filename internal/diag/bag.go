package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one file in emission order. Entries are
// never merged: two policies flagging the same span yield two entries.
type Bag struct {
	items   []*Diagnostic
	limit   int
	dropped int
}

// NewBag returns a bag keeping at most limit diagnostics; limit <= 0 keeps all.
func NewBag(limit int) *Bag {
	return &Bag{items: make([]*Diagnostic, 0, min(max(limit, 16), 64)), limit: limit}
}

// Add stores d unless the limit is reached; refused entries are counted.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped is the number of diagnostics refused by the limit.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []*Diagnostic { return b.items }

// HasErrors reports whether an error-severity diagnostic was kept.
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d *Diagnostic) bool { return d.Severity >= SevError })
}

// Sort orders by file and span, higher severity first, then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y *Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
