package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	bp "vlxref/internal/buildpipeline"
)

// fileState is the last known progress of one dump file.
type fileState struct {
	path    string
	stage   bp.Stage
	status  bp.Status
	failed  bool // sticky: a file that failed to parse stays red
	elapsed time.Duration
}

func (f *fileState) label() string {
	switch {
	case f.failed:
		return "error"
	case f.status == bp.StatusQueued || f.stage == 0:
		return "queued"
	case f.status == bp.StatusWorking && f.stage == bp.StageParse:
		return "parsing"
	case f.status == bp.StatusWorking:
		return "indexing"
	case f.stage == bp.StageParse:
		return "parsed"
	}
	return "done"
}

// weight is the share of the work done for the file.
func (f *fileState) weight() float64 {
	switch f.label() {
	case "parsing":
		return 0.2
	case "parsed":
		return 0.6
	case "indexing":
		return 0.8
	case "done", "error":
		return 1
	}
	return 0
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyle = map[string]lipgloss.Style{
		"done":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"error":    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"parsing":  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"parsed":   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"indexing": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
	plainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type progressModel struct {
	title   string
	events  <-chan bp.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileState
	byPath  map[string]int
	batch   string // label of the batch-wide stage
	width   int
	height  int
	done    bool
}

type (
	eventMsg bp.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders indexing
// progress of files. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan bp.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   make([]fileState, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
		height:  24,
	}
	for i, path := range files {
		m.files[i].path = path
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(bp.Event(msg)), m.next())
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
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
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

func (m *progressModel) applyEvent(ev bp.Event) tea.Cmd {
	if ev.File == "" {
		st := fileState{stage: ev.Stage, status: ev.Status, failed: ev.Status == bp.StatusError}
		if ev.Status != bp.StatusQueued {
			m.batch = st.label()
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	f := &m.files[i]
	if f.failed {
		return nil
	}
	f.stage, f.status = ev.Stage, ev.Status
	f.failed = ev.Status == bp.StatusError
	if ev.Stage == bp.StageParse && ev.Status == bp.StatusDone {
		f.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	var sum float64
	for i := range m.files {
		sum += m.files[i].weight()
	}
	return sum / float64(len(m.files))
}

// visible picks the rows that fit the terminal: everything if it fits,
// otherwise failed and in-flight files first.
func (m *progressModel) visible() (rows []*fileState, hidden int) {
	limit := max(m.height-6, 3)
	if len(m.files) <= limit {
		for i := range m.files {
			rows = append(rows, &m.files[i])
		}
		return rows, 0
	}
	for _, want := range []func(*fileState) bool{
		func(f *fileState) bool { return f.failed },
		func(f *fileState) bool { return !f.failed && f.status == bp.StatusWorking },
	} {
		for i := range m.files {
			if len(rows) == limit-1 {
				break
			}
			if want(&m.files[i]) {
				rows = append(rows, &m.files[i])
			}
		}
	}
	return rows, len(m.files) - len(rows)
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	header := m.title
	if m.batch != "" {
		header += " (" + m.batch + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16-10, 20)
	rows, hidden := m.visible()
	for _, f := range rows {
		label := f.label()
		style, ok := labelStyle[label]
		if !ok {
			style = plainStyle
		}
		fmt.Fprintf(&b, "  %s %s", style.Render(fmt.Sprintf("%12s", label)), truncate(f.path, nameWidth))
		if f.elapsed > 0 {
			fmt.Fprintf(&b, " %s", plainStyle.Render(f.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  %12s %d more files\n", "", hidden)
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

// RunProgress renders the model on out until events is closed or ctx is
// done.
func RunProgress(ctx context.Context, out io.Writer, title string, files []string, events <-chan bp.Event) error {
	p := tea.NewProgram(
		NewProgressModel(title, files, events),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)
	_, err := p.Run()
	return err
}
