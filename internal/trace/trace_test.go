package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelError, ScopeRun, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopeProducer, false},
		{LevelDetail, ScopeProducer, true},
		{LevelDetail, ScopePolicy, false},
		{LevelDebug, ScopePolicy, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeRun, Name: name})
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("snapshot = %v, want c d e", names)
	}
}

func TestSpansThroughContext(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	run := Begin(FromContext(ctx), ScopeRun, "check", 0)
	ctx = WithSpanContext(ctx, SpanContext{SpanID: run.ID()})
	file := Begin(FromContext(ctx), ScopeFile, "analyze", CurrentSpan(ctx).SpanID).WithExtra("path", "A.cs")
	file.End("")
	node := Begin(FromContext(ctx), ScopePolicy, "walk", file.ID())
	node.End("")
	run.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4 (node scope filtered):\n%s", len(lines), buf.String())
	}
	var ev struct {
		Name     string            `json:"name"`
		Kind     string            `json:"kind"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Name != "analyze" || ev.Kind != "end" || ev.ParentID != run.ID() || ev.Extra["path"] != "A.cs" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestChromeStreamIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	s := Begin(tr, ScopeRun, "check", 0)
	s.End("ok")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("chrome output is not JSON: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 2 || doc.TraceEvents[0]["ph"] != "B" || doc.TraceEvents[1]["ph"] != "E" {
		t.Fatalf("events = %v", doc.TraceEvents)
	}
}

func TestParseHelpers(t *testing.T) {
	if l, err := ParseLevel("detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("ParseLevel accepted junk")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("chrome"); err != nil || f != FormatChrome {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
}

func TestRingDumpsOnClose(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeRing, Output: &buf, Format: FormatNDJSON, RingSize: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"A.cs", "B.cs", "C.cs"} {
		Begin(tr, ScopeFile, name, 0).End("")
	}
	if buf.Len() != 0 {
		t.Fatal("ring wrote before Close")
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "C.cs") {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestHeartbeatStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	h := StartHeartbeat(tr, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	h.Stop()
	h.Stop()
	if !strings.Contains(buf.String(), "heartbeat") {
		t.Fatalf("no heartbeat emitted:\n%s", buf.String())
	}
	var none *Heartbeat
	none.Stop()
	if StartHeartbeat(Nop, time.Second) != nil {
		t.Fatal("heartbeat started on a disabled tracer")
	}
}
