package fix

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// AllowHeuristics lets ApplyModeAll take fixes marked SafeWithHeuristics.
	AllowHeuristics bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  *diag.Diagnostic
	fix   *diag.Fix
	order int
}

// Apply selects fixes from diagnostics according to opts and rewrites the
// affected files. Every edit span refers to the content the FileSet holds;
// an edit overlapping one already accepted, or whose OldText no longer
// matches, skips its whole fix. ErrNoFixes is returned when nothing applied.
func Apply(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	plan := newPlan(fs)
	for _, cand := range selected {
		if reason := plan.accept(cand.fix); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := plan.write()
	result.FileChanges = append(result.FileChanges, changes...)
	return result, err
}

// gatherCandidates flattens the fixes of enabled diagnostics. Fixes without
// edits and repeated IDs are skipped; a missing ID is derived from the code,
// the primary span and the fix index.
func gatherCandidates(diagnostics []*diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool)
	for _, d := range diagnostics {
		if d == nil || !d.Severity.Enabled() {
			continue
		}
		for idx, f := range d.Fixes {
			if f == nil {
				continue
			}
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			id := f.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if seen[id] {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = true
			fx := *f
			fx.ID = id
			cands = append(cands, candidate{diag: d, fix: &fx, order: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by file and position, then by emission order; the
// remaining keys only break ties between fixes of one diagnostic.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		pa, pb := a.diag.Primary, b.diag.Primary
		switch {
		case pa.File != pb.File:
			return pa.File < pb.File
		case pa.Start != pb.Start:
			return pa.Start < pb.Start
		case pa.End != pb.End:
			return pa.End < pb.End
		case a.order != b.order:
			return a.order < b.order
		}
		return a.fix.ID < b.fix.ID
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID != opts.TargetID {
				continue
			}
			return []candidate{cand}, nil
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}

	case ApplyModeAll:
		var (
			selected []candidate
			skipped  []SkippedFix
		)
		for _, cand := range candidates {
			switch app := cand.fix.Applicability; {
			case app == diag.FixApplicabilityAlwaysSafe,
				opts.AllowHeuristics && app == diag.FixApplicabilitySafeWithHeuristics:
				selected = append(selected, cand)
			default:
				skipped = append(skipped, SkippedFix{
					ID:     cand.fix.ID,
					Title:  cand.fix.Title,
					Reason: "applicability is " + app.String(),
				})
			}
		}
		return selected, skipped

	case ApplyModeOnce:
		var fallback *candidate
		for i := range candidates {
			cand := &candidates[i]
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{*cand}, nil
			}
			if fallback == nil {
				fallback = cand
			}
		}
		if fallback != nil {
			return []candidate{*fallback}, nil
		}
		return nil, nil
	}
	return nil, nil
}

// plan collects the accepted edits per file.
type plan struct {
	fs    *source.FileSet
	edits map[source.FileID][]diag.TextEdit
}

func newPlan(fs *source.FileSet) *plan {
	return &plan{fs: fs, edits: make(map[source.FileID][]diag.TextEdit)}
}

// accept stages every edit of f or none of them; a non-empty result is the
// reason f was refused.
func (p *plan) accept(f *diag.Fix) string {
	staged := make(map[source.FileID][]diag.TextEdit)
	for _, e := range f.Edits {
		file := p.fs.Get(e.Span.File)
		switch {
		case file == nil:
			return fmt.Sprintf("unknown file %d", e.Span.File)
		case file.Flags&source.FileVirtual != 0:
			return "target file is virtual"
		case !e.Span.Valid(len(file.Content)):
			return "edit span out of range"
		case e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText:
			return "existing text does not match expected content"
		}
		if overlapsAny(p.edits[e.Span.File], e) || overlapsAny(staged[e.Span.File], e) {
			return "conflicts with previously applied edits in " + file.FormatPath("auto", p.fs.BaseDir())
		}
		staged[e.Span.File] = append(staged[e.Span.File], e)
	}
	for id, edits := range staged {
		p.edits[id] = append(p.edits[id], edits...)
	}
	return ""
}

// write rewrites every touched file, edits applied from the end so earlier
// offsets stay valid.
func (p *plan) write() ([]FileChange, error) {
	ids := make([]source.FileID, 0, len(p.edits))
	for id := range p.edits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	changes := make([]FileChange, 0, len(ids))
	for _, id := range ids {
		file := p.fs.Get(id)
		if changed, err := file.ChangedOnDisk(); err != nil {
			return changes, err
		} else if changed {
			return changes, fmt.Errorf("%s changed on disk since it was checked", file.Path)
		}
		edits := p.edits[id]
		sort.SliceStable(edits, func(i, j int) bool {
			if edits[i].Span.Start != edits[j].Span.Start {
				return edits[i].Span.Start > edits[j].Span.Start
			}
			return edits[i].Span.End > edits[j].Span.End
		})
		crlf := file.Flags&source.FileHasCRLF != 0
		content := append([]byte(nil), file.Content...)
		for _, e := range edits {
			text := e.NewText
			if crlf {
				text = toCRLF(text)
			}
			content = append(content[:e.Span.Start], append([]byte(text), content[e.Span.End:]...)...)
		}
		if err := writeFileAtomic(file.Path, content); err != nil {
			return changes, fmt.Errorf("write %s: %w", file.Path, err)
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", p.fs.BaseDir()),
			EditCount: len(edits),
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

func overlapsAny(accepted []diag.TextEdit, e diag.TextEdit) bool {
	for _, prev := range accepted {
		if prev.Span.Overlaps(e.Span) {
			return true
		}
	}
	return false
}

// toCRLF turns bare \n breaks of a replacement into \r\n.
func toCRLF(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

// writeFileAtomic replaces path through a temp file in the same directory,
// keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	_, werr := bytes.NewReader(data).WriteTo(tmp)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if fs == nil {
		return ""
	}
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
