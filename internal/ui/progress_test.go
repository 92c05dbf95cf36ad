package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"cstyle/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("cstyle check", []string{"A.cs", "B.cs", "C.cs"}, events).(*progressModel)

	m.Update(eventMsg(driver.Event{File: "A.cs", Stage: driver.StageAnalyze, Status: driver.StatusWorking}))
	if got := m.rows[0].state; got != stateChecking {
		t.Fatalf("A.cs state = %v, want checking", got)
	}
	// produce done is not final, analyze follows
	m.Update(eventMsg(driver.Event{File: "C.cs", Stage: driver.StageProduce, Status: driver.StatusDone}))
	m.Update(eventMsg(driver.Event{File: "A.cs", Stage: driver.StageAnalyze, Status: driver.StatusDone, Diagnostics: 3, Elapsed: time.Millisecond}))
	m.Update(eventMsg(driver.Event{File: "B.cs", Stage: driver.StageProduce, Status: driver.StatusError}))
	m.Update(eventMsg(driver.Event{File: "C.cs", Stage: driver.StageAnalyze, Status: driver.StatusDone}))
	m.Update(eventMsg(driver.Event{File: "C.cs", Stage: driver.StageAnalyze, Status: driver.StatusError}))
	m.Update(eventMsg(driver.Event{File: "unknown.cs", Status: driver.StatusDone}))

	if m.finished != 3 || m.issues != 3 {
		t.Fatalf("finished = %d issues = %d, want 3 and 3", m.finished, m.issues)
	}
	if m.rows[2].state != stateClean {
		t.Fatalf("final row changed state: %v", m.rows[2].state)
	}
	if pct := m.percent(); pct != 1.0 {
		t.Fatalf("percent = %v, want 1", pct)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: cstyle check (3/3)", "A.cs", "(3)", "error", "clean", "3 diagnostics"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestVisibleRowsPrefersActiveFiles(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("F%02d.cs", i)
	}
	m := NewProgressModel("check", files, nil).(*progressModel)
	m.Update(eventMsg(driver.Event{File: "F19.cs", Stage: driver.StageProduce, Status: driver.StatusWorking}))
	m.Update(eventMsg(driver.Event{File: "F18.cs", Stage: driver.StageProduce, Status: driver.StatusError}))

	rows := m.visibleRows()
	if len(rows) != minRows {
		t.Fatalf("visible = %d, want %d", len(rows), minRows)
	}
	if rows[0].path != "F19.cs" || rows[1].path != "F18.cs" || rows[2].path != "F00.cs" {
		t.Fatalf("order = %v, %v, %v", rows[0].path, rows[1].path, rows[2].path)
	}
	if !strings.Contains(m.View(), "... 12 more files") {
		t.Fatalf("hidden count missing:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/Very/Long/Path.cs", 10); got != "src/Ver..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("A.cs", 10); got != "A.cs" {
		t.Fatalf("truncate = %q", got)
	}
}
