package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"rsanum/internal/primegen"
)

const labelWidth = 10

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyles = map[string]lipgloss.Style{
		string(primegen.StatusDone):     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"pooled":                        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		string(primegen.StatusError):    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		string(primegen.StatusCanceled): lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		string(primegen.StatusWorking):  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
	idleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// board shows one row per prime slot plus an overall bar.
type board struct {
	title  string
	feed   <-chan primegen.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []row
	width  int
	closed bool
}

type row struct {
	status   primegen.Status
	attempts int
	pooled   bool
	prime    string
	err      string
}

type (
	jobMsg        primegen.Event
	feedClosedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model that renders one line per prime
// search job. It quits when events is closed.
func NewProgressModel(title string, jobs int, events <-chan primegen.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	rows := make([]row, max(jobs, 0))
	for i := range rows {
		rows[i].status = primegen.StatusQueued
	}
	return &board{
		title: title,
		feed:  events,
		spin:  spin,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:  rows,
		width: 80,
	}
}

func (b *board) Init() tea.Cmd { return tea.Batch(b.spin.Tick, b.next()) }

// next waits for one event from the feed.
func (b *board) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-b.feed; ok {
			return jobMsg(ev)
		}
		return feedClosedMsg{}
	}
}

func (b *board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case jobMsg:
		cmd = tea.Batch(b.apply(primegen.Event(msg)), b.next())
	case feedClosedMsg:
		b.closed = true
		cmd = tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			cmd = tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			b.width = msg.Width
			b.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !b.closed {
			b.spin, cmd = b.spin.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = b.bar.Update(msg)
		b.bar = bar.(progress.Model)
	}
	return b, cmd
}

// apply folds ev into its row. Rows in a final state ignore later events.
func (b *board) apply(ev primegen.Event) tea.Cmd {
	if ev.Job < 0 || ev.Job >= len(b.rows) || final(b.rows[ev.Job].status) {
		return nil
	}
	r := &b.rows[ev.Job]
	r.status, r.pooled = ev.Status, ev.Pooled
	r.attempts = max(r.attempts, ev.Attempts)
	if ev.Status == primegen.StatusDone {
		r.prime = ev.Prime.String()
	}
	if ev.Err != nil {
		r.err = ev.Err.Error()
	}
	return b.bar.SetPercent(float64(b.settled()) / float64(len(b.rows)))
}

func (b *board) settled() int {
	n := 0
	for _, r := range b.rows {
		if final(r.status) {
			n++
		}
	}
	return n
}

func (b *board) View() string {
	if len(b.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s (%d/%d)", b.title, b.settled(), len(b.rows))
	bar := b.bar.View()
	if b.closed {
		header = "done: " + header
		bar = b.bar.ViewAs(1)
	} else {
		header = b.spin.View() + " " + header
	}

	lines := []string{headerStyle.Render(header), ""}
	detailWidth := max(b.width-labelWidth-16, 20)
	for i, r := range b.rows {
		label := r.label()
		styled, ok := labelStyles[label]
		if !ok {
			styled = idleStyle
		}
		lines = append(lines, fmt.Sprintf("  %s job %-3d %s",
			styled.Width(labelWidth).Align(lipgloss.Right).Render(label), i, truncate(r.detail(), detailWidth)))
	}
	lines = append(lines, "", bar)
	return strings.Join(lines, "\n") + "\n"
}

func (r row) label() string {
	if r.pooled {
		return "pooled"
	}
	return string(r.status)
}

func (r row) detail() string {
	switch {
	case r.err != "":
		return r.err
	case r.prime != "" && r.pooled:
		return "0x" + r.prime
	case r.prime != "":
		return "0x" + r.prime + "  after " + strconv.Itoa(r.attempts) + " attempts"
	case r.attempts > 0:
		return strconv.Itoa(r.attempts) + " candidates"
	}
	return ""
}

func final(s primegen.Status) bool {
	return s == primegen.StatusDone || s == primegen.StatusError || s == primegen.StatusCanceled
}

// truncate shortens s to width terminal cells, marking the cut with "..."
// when there is room for it.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(s, width, tail)
}
