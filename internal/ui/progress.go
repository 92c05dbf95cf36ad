// Package ui renders the live progress view of `cstyle check --ui`.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cstyle/internal/driver"
)

// minRows is the file list height used before the terminal size is known.
const minRows = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyle = map[state]lipgloss.Style{
		stateQueued:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		stateParsing:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateChecking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateClean:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateIssues:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		stateFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

type state uint8

const (
	stateQueued state = iota
	stateParsing
	stateChecking
	stateClean
	stateIssues
	stateFailed
)

var stateNames = [...]string{"queued", "parsing", "checking", "clean", "issues", "error"}

func (s state) String() string { return stateNames[s] }

func (s state) final() bool { return s >= stateClean }

// weight is the share of a file's work done once it reaches s.
func (s state) weight() float64 {
	switch {
	case s.final():
		return 1
	case s == stateChecking:
		return 0.7
	case s == stateParsing:
		return 0.2
	}
	return 0
}

type fileRow struct {
	path    string
	state   state
	issues  int
	elapsed time.Duration
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	rows     []fileRow
	byPath   map[string]int
	width    int
	height   int
	finished int
	issues   int
	done     bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing files and their
// state. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width > 4 {
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply moves a row to the state ev describes. Rows never leave a final state.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok || m.rows[i].state.final() {
		return nil
	}
	row := &m.rows[i]
	switch ev.Status {
	case driver.StatusWorking:
		row.state = stateParsing
		if ev.Stage == driver.StageAnalyze {
			row.state = stateChecking
		}
		return m.bar.SetPercent(m.percent())
	case driver.StatusError:
		row.state = stateFailed
	case driver.StatusDone:
		if ev.Stage != driver.StageAnalyze {
			return nil
		}
		row.state = stateClean
		if ev.Diagnostics > 0 {
			row.state = stateIssues
		}
	default:
		return nil
	}
	row.issues = ev.Diagnostics
	row.elapsed = ev.Elapsed
	m.finished++
	m.issues += ev.Diagnostics
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.state.weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.done {
		header = fmt.Sprintf("done: %s (%d/%d)", m.title, m.finished, len(m.rows))
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-30, 20)
	shown := m.visibleRows()
	for _, r := range shown {
		label := stateStyle[r.state].Render(fmt.Sprintf("%9s", r.state))
		fmt.Fprintf(&b, "  %s %s", label, truncate(r.path, nameWidth))
		if r.state == stateIssues {
			fmt.Fprintf(&b, " %s", dimStyle.Render(fmt.Sprintf("(%d)", r.issues)))
		}
		if r.state.final() && r.elapsed > 0 {
			fmt.Fprintf(&b, " %s", dimStyle.Render(r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
	}
	if hidden := len(m.rows) - len(shown); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more files", hidden)))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d diagnostics so far", m.issues)))
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows fits the list to the terminal: files in flight first, then
// problems, then the rest in input order.
func (m *progressModel) visibleRows() []fileRow {
	limit := minRows
	if m.height > 0 {
		limit = max(m.height-7, 1)
	}
	if len(m.rows) <= limit {
		return m.rows
	}
	out := make([]fileRow, 0, limit)
	for _, pick := range []func(state) bool{
		func(s state) bool { return s == stateParsing || s == stateChecking },
		func(s state) bool { return s == stateFailed || s == stateIssues },
		func(s state) bool { return s == stateQueued || s == stateClean },
	} {
		for _, r := range m.rows {
			if len(out) == limit {
				return out
			}
			if pick(r.state) {
				out = append(out, r)
			}
		}
	}
	return out
}

// truncate fits value into width display columns, "..." included.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
