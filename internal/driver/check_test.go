package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cstyle/internal/diag"
	"cstyle/internal/lint"
	"cstyle/internal/producer"
	"cstyle/internal/project"
	"cstyle/internal/syntax"
	"cstyle/internal/testkit"
)

// treeSource serves testkit trees keyed by file base name.
type treeSource struct {
	trees map[string]*testkit.NodePart
	fail  map[string]error
}

func (s treeSource) Produce(_ context.Context, path string, _ []byte) (producer.Tree, error) {
	name := filepath.Base(path)
	if err, ok := s.fail[name]; ok {
		return producer.Tree{}, err
	}
	part, ok := s.trees[name]
	if !ok {
		return producer.Tree{}, producer.ErrEmptyOutput
	}
	root, _ := testkit.Build(part)
	return producer.Tree{Forest: syntax.Forest{path: root}}, nil
}

func writeTree(t *testing.T, dir, name string, part *testkit.NodePart) {
	t.Helper()
	_, src := testkit.MustBuild(part)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"b.cs", "a.CS", "notes.txt", "sub/c.cs", "obj/gen.cs", ".git/x.cs"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	explicit := filepath.Join(dir, "notes.txt")
	got, err := ListFiles([]string{dir, explicit, filepath.Join(dir, "b.cs")})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.CS"),
		filepath.Join(dir, "b.cs"),
		explicit,
		filepath.Join(dir, "sub", "c.cs"),
	}
	if len(got) != len(want) {
		t.Fatalf("ListFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListFiles[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := ListFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatal("missing path accepted")
	}
}

func TestCheckIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "A.cs", testkit.UnindentedMethod())
	writeTree(t, dir, "B.cs", testkit.UnindentedMethod())

	var (
		mu     sync.Mutex
		events []Event
	)
	src := treeSource{
		trees: map[string]*testkit.NodePart{"A.cs": testkit.UnindentedMethod()},
		fail:  map[string]error{"B.cs": errors.New("producer crashed")},
	}
	res, err := Check(context.Background(), []string{dir}, Options{
		Source:        src,
		Jobs:          2,
		EnableTimings: true,
		Progress: SinkFunc(func(e Event) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}),
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("got %d file results", len(res.Files))
	}
	a, b := res.Files[0], res.Files[1]
	if filepath.Base(a.Path) != "A.cs" || a.Err != nil {
		t.Fatalf("A.cs result = %+v", a)
	}
	if a.Bag.Len() != 1 || a.Bag.Items()[0].Code != "INDENT1" {
		t.Fatalf("A.cs diagnostics = %v", a.Bag.Items())
	}
	if b.Err == nil {
		t.Fatal("B.cs failure was lost")
	}
	if got := res.ExitCode(); got != ExitFailed {
		t.Fatalf("ExitCode = %d, want %d", got, ExitFailed)
	}
	if res.Timing.Empty() {
		t.Fatal("timings were requested")
	}

	finals := map[string]Status{}
	for _, e := range events {
		if e.File != "" {
			finals[filepath.Base(e.File)] = e.Status
		}
	}
	if finals["A.cs"] != StatusDone || finals["B.cs"] != StatusError {
		t.Fatalf("final statuses = %v", finals)
	}
}

func TestCheckSeverityOverrides(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "A.cs", testkit.UnindentedMethod())
	src := treeSource{trees: map[string]*testkit.NodePart{"A.cs": testkit.UnindentedMethod()}}

	tests := []struct {
		name      string
		overrides map[string]diag.Severity
		wantDiags int
		wantExit  int
	}{
		{"defaults", nil, 1, ExitErrors},
		{"downgraded", map[string]diag.Severity{"INDENT1": diag.SevWarning}, 1, ExitClean},
		{"policy disabled", map[string]diag.Severity{"INDENT": diag.SevDisabled}, 0, ExitClean},
		{"code refines policy", map[string]diag.Severity{"INDENT": diag.SevDisabled, "INDENT1": diag.SevInfo}, 1, ExitClean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Check(context.Background(), []string{dir}, Options{Source: src, Severity: tt.overrides})
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if n := len(res.Diagnostics()); n != tt.wantDiags {
				t.Fatalf("diagnostics = %d, want %d", n, tt.wantDiags)
			}
			if got := res.ExitCode(); got != tt.wantExit {
				t.Fatalf("ExitCode = %d, want %d", got, tt.wantExit)
			}
		})
	}
}

func TestCheckRejectsUnknownOverride(t *testing.T) {
	_, err := Check(context.Background(), nil, Options{
		Source:   treeSource{},
		Severity: map[string]diag.Severity{"NOPE": diag.SevError},
	})
	if err == nil {
		t.Fatal("unknown severity key accepted")
	}
}

func TestCheckWithoutSource(t *testing.T) {
	if _, err := Check(context.Background(), nil, Options{}); err == nil {
		t.Fatal("Check ran without a producer")
	}
}

func TestLintOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  project.LintConfig
		want lint.Options
	}{
		{"zero keeps defaults", project.LintConfig{}, lint.DefaultOptions()},
		{"overrides", project.LintConfig{
			IndentWidth:            2,
			MaxParameters:          3,
			MaxParameterListLength: 80,
			StarCommentAlignment:   true,
		}, lint.Options{
			IndentWidth:            2,
			MaxParameters:          3,
			MaxParameterListLength: 80,
			StarCommentAlignment:   true,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LintOptions(tt.cfg); got != tt.want {
				t.Fatalf("LintOptions = %+v, want %+v", got, tt.want)
			}
		})
	}
}
