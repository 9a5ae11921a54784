// Package ui renders sysroot synthesis progress as a terminal UI.
package ui

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nostdcheck/internal/sysroot"
)

type copyModel struct {
	title   string
	events  <-chan sysroot.Event
	spinner spinner.Model
	prog    progress.Model
	current string
	copied  int
	total   int
	failed  bool
	width   int
	done    bool
}

type eventMsg sysroot.Event
type doneMsg struct{}

// NewCopyModel returns a Bubble Tea model that renders sysroot copy progress.
func NewCopyModel(title string, total int, events <-chan sysroot.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 60

	return &copyModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   total,
		width:   80,
	}
}

func (m *copyModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *copyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(sysroot.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
			m.prog.Width = msg.Width - 20
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *copyModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.failed:
		header = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("error: ") + header
	case m.done:
		header = fmt.Sprintf("done: %s", header)
	default:
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := m.width - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	b.WriteString("  ")
	b.WriteString(truncate(m.current, nameWidth))
	b.WriteString("\n\n")

	if m.done && !m.failed {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString(fmt.Sprintf(" %d/%d", m.copied, m.total))
	b.WriteString("\n")

	return b.String()
}

func (m *copyModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(evt)
	}
}

func (m *copyModel) applyEvent(evt sysroot.Event) tea.Cmd {
	if evt.Total > 0 {
		m.total = evt.Total
	}
	m.copied = evt.Copied
	if evt.Path != "" {
		m.current = evt.Path
	}
	if evt.Status == sysroot.StatusError {
		m.failed = true
	}
	return m.prog.SetPercent(percent(m.copied, m.total))
}

func percent(copied, total int) float64 {
	if total <= 0 {
		return 0
	}
	c, err := safecast.Convert[float64](copied)
	if err != nil {
		return 0
	}
	n, err := safecast.Convert[float64](total)
	if err != nil || n == 0 {
		return 0
	}
	return c / n
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
