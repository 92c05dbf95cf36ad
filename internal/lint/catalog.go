package lint

import (
	"fmt"
	"sort"
	"strings"

	"cstyle/internal/diag"
)

// BOMName is the registry name of the engine-level byte-order-mark check.
const BOMName = "Byte-order-mark should not be present"

// Entry is one row of the severity/name registry.
type Entry struct {
	Code     diag.Code
	Policy   string // owning policy code, "" for engine-level checks
	Severity diag.Severity
	Name     string
}

// Catalog is the union of every policy's severity and name maps keyed by
// composite code, plus the BOM entry.
type Catalog struct {
	entries map[diag.Code]*Entry
	order   []diag.Code
	byCode  map[string]Policy
}

// NewCatalog builds the registry. Two policies sharing a code is an error.
func NewCatalog(policies []Policy) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[diag.Code]*Entry),
		byCode:  make(map[string]Policy, len(policies)),
	}
	for _, p := range policies {
		code := p.Code()
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate policy code %q", code)
		}
		c.byCode[code] = p

		names := p.NameMap()
		subs := make([]int, 0, len(p.SeverityMap()))
		for sub := range p.SeverityMap() {
			subs = append(subs, sub)
		}
		sort.Ints(subs)
		for _, sub := range subs {
			c.add(&Entry{
				Code:     diag.Compose(code, sub),
				Policy:   code,
				Severity: p.SeverityMap()[sub],
				Name:     names[sub],
			})
		}
	}
	c.add(&Entry{Code: diag.CodeBOM, Severity: diag.SevError, Name: BOMName})
	return c, nil
}

func (c *Catalog) add(e *Entry) {
	if _, ok := c.entries[e.Code]; !ok {
		c.order = append(c.order, e.Code)
	}
	c.entries[e.Code] = e
}

// Override sets the severity of a composite code, or of every code of a
// policy when key is a bare policy code.
func (c *Catalog) Override(key string, sev diag.Severity) error {
	key = strings.TrimSpace(key)
	if e, ok := c.entries[diag.Code(key)]; ok {
		e.Severity = sev
		return nil
	}
	if _, ok := c.byCode[key]; !ok {
		return fmt.Errorf("unknown policy or code %q", key)
	}
	for _, e := range c.entries {
		if e.Policy == key {
			e.Severity = sev
		}
	}
	return nil
}

// Severity returns the configured severity, SevError for unknown codes.
func (c *Catalog) Severity(code diag.Code) diag.Severity {
	if e, ok := c.entries[code]; ok {
		return e.Severity
	}
	return diag.SevError
}

// Name returns the registry name of code.
func (c *Catalog) Name(code diag.Code) string {
	if e, ok := c.entries[code]; ok {
		return e.Name
	}
	return ""
}

// Lookup returns the entry of code.
func (c *Catalog) Lookup(code diag.Code) (Entry, bool) {
	e, ok := c.entries[code]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Policy returns the policy registered under code.
func (c *Catalog) Policy(code string) (Policy, bool) {
	p, ok := c.byCode[code]
	return p, ok
}

// Entries returns every entry in registration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, *c.entries[code])
	}
	return out
}
