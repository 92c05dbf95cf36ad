package producer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cstyle/internal/syntax"
)

const tinyTree = `{"%s": {"Type": "syntax", "ASTType": "CompilationUnitSyntax", "Text": "", "TrimmedText": "",
  "Span": {"Start": {"Line": 1, "Character": 1}, "End": {"Line": 1, "Character": 1}}, "SpanStart": 0,
  "Children": [{"Type": "token", "ASTType": "SyntaxToken", "Kind": "EndOfFileToken", "Text": "", "TrimmedText": "",
    "Span": {"Start": {"Line": 1, "Character": 1}, "End": {"Line": 1, "Character": 1}}, "SpanStart": 0}]}}`

func treeJSON(path string) string {
	return strings.Replace(tinyTree, "%s", path, 1)
}

func TestDecode(t *testing.T) {
	tree, err := Decode([]byte(treeJSON("A.cs")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root := tree.Forest["A.cs"]; root == nil || root.Kind != syntax.CompilationUnit {
		t.Fatalf("forest = %v", tree.Forest)
	}
	if tree.Wire["A.cs"] == nil {
		t.Fatal("wire form missing")
	}

	if _, err := Decode([]byte("  \n")); !errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("blank output error = %v, want ErrEmptyOutput", err)
	}
	var de *syntax.DecodeError
	if _, err := Decode([]byte("Unhandled exception")); !errors.As(err, &de) {
		t.Fatalf("non-JSON error = %v, want DecodeError", err)
	}
	if _, err := Decode([]byte("{}")); !errors.Is(err, syntax.ErrEmptyForest) {
		t.Fatalf("empty mapping error = %v, want ErrEmptyForest", err)
	}
}

func TestNewExecSourceUnavailable(t *testing.T) {
	_, err := NewExecSource("cstyle-no-such-producer-"+t.Name(), nil, 0)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

// fakeProducer writes a shell script that prints a tree for its last
// argument, or fails for paths containing "bad".
func fakeProducer(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script producer")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "producer.sh")
	body := "#!/bin/sh\n" +
		"for last; do :; done\n" +
		"case \"$last\" in *bad*) echo 'cannot parse' >&2; exit 3;; esac\n" +
		"printf '%s' '" + strings.ReplaceAll(tinyTree, "%s", "'\"$last\"'") + "'\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return script
}

func TestExecSource(t *testing.T) {
	src, err := NewExecSource(fakeProducer(t), []string{"--json"}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewExecSource: %v", err)
	}
	tree, err := src.Produce(context.Background(), "Good.cs", nil)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if tree.Forest["Good.cs"] == nil {
		t.Fatalf("forest keys = %v", tree.Forest)
	}

	_, err = src.Produce(context.Background(), "bad.cs", nil)
	var re *RunError
	if !errors.As(err, &re) || re.Stderr != "cannot parse" || re.Path != "bad.cs" {
		t.Fatalf("err = %v, want RunError with stderr", err)
	}
}

type fakeSource struct {
	mu      sync.Mutex
	calls   map[string]int
	delay   map[string]time.Duration
	running atomic.Int32
	peak    atomic.Int32
}

func (f *fakeSource) Produce(ctx context.Context, path string, _ []byte) (Tree, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[path]++
	d := f.delay[path]
	f.mu.Unlock()

	select {
	case <-time.After(d):
	case <-ctx.Done():
		return Tree{}, ctx.Err()
	}
	if strings.Contains(path, "bad") {
		return Tree{}, errors.New("boom")
	}
	return Decode([]byte(treeJSON(path)))
}

func collect(ch <-chan Outcome) []Outcome {
	var out []Outcome
	for o := range ch {
		out = append(out, o)
	}
	return out
}

func TestRunnerCompletionOrderAndIsolation(t *testing.T) {
	src := &fakeSource{delay: map[string]time.Duration{
		"slow.cs": 80 * time.Millisecond,
		"bad.cs":  10 * time.Millisecond,
		"fast.cs": 0,
	}}
	jobs := []Job{{Path: "slow.cs"}, {Path: "bad.cs"}, {Path: "fast.cs"}}
	outcomes := collect(NewRunner(src, 3).Run(context.Background(), jobs))

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if outcomes[len(outcomes)-1].Path != "slow.cs" {
		t.Fatalf("slowest job not last: %v", outcomes)
	}
	for _, o := range outcomes {
		switch o.Path {
		case "bad.cs":
			if o.Err == nil {
				t.Fatal("bad.cs succeeded")
			}
		default:
			if o.Err != nil || o.Forest[o.Path] == nil {
				t.Fatalf("%s: err=%v forest=%v; a failing sibling must not affect it", o.Path, o.Err, o.Forest)
			}
		}
	}
}

func TestRunnerRespectsLimit(t *testing.T) {
	src := &fakeSource{delay: map[string]time.Duration{}}
	var jobs []Job
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		src.delay[name+".cs"] = 15 * time.Millisecond
		jobs = append(jobs, Job{Path: name + ".cs"})
	}
	outcomes := collect(NewRunner(src, 2).Run(context.Background(), jobs))
	if len(outcomes) != len(jobs) {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	if peak := src.peak.Load(); peak > 2 {
		t.Fatalf("peak concurrency %d, want <= 2", peak)
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := collect(NewRunner(&fakeSource{}, 1).Run(ctx, []Job{{Path: "a.cs"}, {Path: "b.cs"}}))
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want one per job", len(outcomes))
	}
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("%s: err = %v, want context.Canceled", o.Path, o.Err)
		}
	}
}

func TestRunnerNoJobs(t *testing.T) {
	if got := collect(NewRunner(&fakeSource{}, 0).Run(context.Background(), nil)); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestCachedSource(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	inner := &fakeSource{}
	src := NewCachedSource(inner, cache, "fake v1")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		tree, err := src.Produce(ctx, "A.cs", []byte("class A {}"))
		if err != nil {
			t.Fatalf("Produce #%d: %v", i, err)
		}
		if tree.Forest["A.cs"] == nil {
			t.Fatalf("Produce #%d lost the tree", i)
		}
	}
	if hits, misses := src.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("hits=%d misses=%d, want 1/1", hits, misses)
	}
	if inner.calls["A.cs"] != 1 {
		t.Fatalf("producer ran %d times, want 1", inner.calls["A.cs"])
	}

	// edited content misses
	if _, err := src.Produce(ctx, "A.cs", []byte("class A { }")); err != nil {
		t.Fatal(err)
	}
	// another producer identity misses too
	other := NewCachedSource(inner, cache, "fake v2")
	if _, err := other.Produce(ctx, "A.cs", []byte("class A {}")); err != nil {
		t.Fatal(err)
	}
	if inner.calls["A.cs"] != 3 {
		t.Fatalf("producer ran %d times, want 3", inner.calls["A.cs"])
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, err := src.Produce(ctx, "A.cs", []byte("class A {}")); err != nil {
		t.Fatal(err)
	}
	if inner.calls["A.cs"] != 4 {
		t.Fatal("DropAll left entries behind")
	}
}

func TestCachedSourceDoesNotStoreFailures(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &fakeSource{}
	src := NewCachedSource(inner, cache, "fake")
	for i := 0; i < 2; i++ {
		if _, err := src.Produce(context.Background(), "bad.cs", nil); err == nil {
			t.Fatal("failure was served")
		}
	}
	if inner.calls["bad.cs"] != 2 {
		t.Fatalf("calls = %d, want 2", inner.calls["bad.cs"])
	}
	entries, _ := filepath.Glob(filepath.Join(cache.Dir(), "trees", "*.mp"))
	sort.Strings(entries)
	if len(entries) != 0 {
		t.Fatalf("cache entries = %v", entries)
	}
}
