// Package tui holds the CLI collaborator's interactive bubbletea
// surfaces: a live progress view driven by the Progress Reporter during
// scan, and a project-selection list for the clean command.
//
// SelectModel keeps the teacher's tui.go structure (spinner + progress
// bar + list.Model, the same State machine shape) re-pointed from
// per-domain CleanTarget selection at model.Project selection, and with
// cleanNext actually invoking a caller-supplied delete function instead
// of the teacher's simulated stub. ScanModel is a spinner plus the
// Reporter's counters, with no progress bar or list.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunvg/devclean/internal/model"
	progressx "github.com/arjunvg/devclean/internal/progress"
	"github.com/arjunvg/devclean/pkg/fsutil"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#06B6D4")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	mutedColor     = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle     = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)

	headerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2).
			Align(lipgloss.Center).
			MarginBottom(1)

	statusBar = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1).
			MarginTop(1)
)

// ---- Scan progress view -----------------------------------------------

const scanPollInterval = 100 * time.Millisecond

type scanTickMsg struct{}

// ScanModel renders a live spinner + progress summary while a Scan runs
// on another goroutine, polling the shared Reporter for snapshots.
type ScanModel struct {
	reporter *progressx.Reporter
	spinner  spinner.Model
	snapshot progressx.Snapshot
	quitting bool
}

// NewScanModel returns a ScanModel that polls reporter until its
// snapshot reports IsComplete.
func NewScanModel(reporter *progressx.Reporter) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)
	return ScanModel{reporter: reporter, spinner: s}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(scanPollInterval, func(time.Time) tea.Msg { return scanTickMsg{} })
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case scanTickMsg:
		m.snapshot = m.reporter.Snapshot()
		if m.snapshot.IsComplete {
			m.quitting = true
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m ScanModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s scanning — %s dirs, %s projects, %s found\n",
		m.spinner.View(),
		fsutil.FormatCount(m.snapshot.DirectoriesScanned),
		fsutil.FormatCount(m.snapshot.ProjectsFound),
		fsutil.FormatBytes(m.snapshot.TotalSizeFound),
	)
}

// RunScanProgress drives ScanModel until the reporter reports complete.
func RunScanProgress(reporter *progressx.Reporter) error {
	p := tea.NewProgram(NewScanModel(reporter))
	_, err := p.Run()
	return err
}

// ---- Project selection + clean view ------------------------------------

// DeleteFunc performs the actual deletion for one project, returning
// bytes actually freed. Supplied by the CLI collaborator so this
// package never imports the deletion executor's safety internals.
type DeleteFunc func(p model.Project) (bytesFreed int64, err error)

// projectItem adapts a model.Project into a bubbles list.Item.
type projectItem struct {
	project  model.Project
	selected bool
}

func (i projectItem) Title() string {
	checkbox := "[ ]"
	if i.selected {
		checkbox = "[x]"
	}
	return fmt.Sprintf("%s %s %s", checkbox, i.project.Kind.Icon, i.project.Name)
}

func (i projectItem) Description() string {
	return fmt.Sprintf("%s • %s", fsutil.FormatBytes(i.project.CleanableSize), i.project.Root)
}

func (i projectItem) FilterValue() string { return i.project.Name }

// SelectState is the clean-flow state machine.
type SelectState int

const (
	StateSelect SelectState = iota
	StateConfirm
	StateCleaning
	StateDone
)

// SelectModel drives interactive project selection and deletion.
type SelectModel struct {
	state       SelectState
	list        list.Model
	items       []projectItem
	spinner     spinner.Model
	progress    progress.Model
	del         DeleteFunc
	dryRun      bool
	cleanIndex  int
	cleanedSize int64
	lastErr     error
	quitting    bool
}

// NewSelectModel builds a selection list over projects, all selected by
// default, backed by del for the actual deletion when confirmed.
func NewSelectModel(projects []model.Project, del DeleteFunc, dryRun bool) SelectModel {
	items := make([]projectItem, len(projects))
	listItems := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p, selected: true}
		listItems[i] = items[i]
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(primaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(secondaryColor)

	l := list.New(listItems, delegate, 0, 0)
	l.Title = "Select projects to clean"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	p := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	return SelectModel{state: StateSelect, list: l, items: items, spinner: s, progress: p, del: del, dryRun: dryRun}
}

func (m SelectModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SelectModel) syncList() {
	listItems := make([]list.Item, len(m.items))
	for i, it := range m.items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

func (m SelectModel) selected() []model.Project {
	var out []model.Project
	for _, it := range m.items {
		if it.selected {
			out = append(out, it.project)
		}
	}
	return out
}

type cleanedMsg struct {
	size int64
	err  error
}

func (m SelectModel) cleanNext(targets []model.Project, idx int) tea.Cmd {
	return func() tea.Msg {
		if idx >= len(targets) {
			return nil
		}
		if m.dryRun {
			return cleanedMsg{size: targets[idx].CleanableSize}
		}
		freed, err := m.del(targets[idx])
		return cleanedMsg{size: freed, err: err}
	}
}

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateSelect:
			switch msg.String() {
			case "q", "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			case " ":
				if i := m.list.Index(); i >= 0 && i < len(m.items) {
					m.items[i].selected = !m.items[i].selected
					m.syncList()
				}
			case "enter":
				if len(m.selected()) > 0 {
					m.state = StateConfirm
				}
			case "a":
				for i := range m.items {
					m.items[i].selected = true
				}
				m.syncList()
			case "n":
				for i := range m.items {
					m.items[i].selected = false
				}
				m.syncList()
			}
		case StateConfirm:
			switch msg.String() {
			case "y", "Y":
				m.state = StateCleaning
				targets := m.selected()
				return m, m.cleanNext(targets, 0)
			case "n", "N", "q", "ctrl+c":
				m.state = StateSelect
			}
		case StateDone:
			if msg.String() == "q" || msg.String() == "ctrl+c" || msg.String() == "enter" {
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-10)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cleanedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
		}
		m.cleanedSize += msg.size
		m.cleanIndex++
		targets := m.selected()
		if m.cleanIndex >= len(targets) {
			m.state = StateDone
		} else {
			return m, m.cleanNext(targets, m.cleanIndex)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	header := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("devclean"),
		subtitleStyle.Render("Interactive cleanup"),
	)
	b.WriteString(headerBox.Render(header))
	b.WriteString("\n")

	switch m.state {
	case StateSelect:
		b.WriteString(m.list.View())
		b.WriteString("\n")

		var totalSize int64
		var count int
		for _, it := range m.items {
			if it.selected {
				totalSize += it.project.CleanableSize
				count++
			}
		}
		status := fmt.Sprintf(" Selected: %d projects • %s ", count, fsutil.FormatBytes(totalSize))
		b.WriteString(statusBar.Render(status))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("up/down: navigate • space: toggle • a: all • n: none • enter: confirm • q: quit"))

	case StateConfirm:
		targets := m.selected()
		var totalSize int64
		for _, p := range targets {
			totalSize += p.CleanableSize
		}
		confirmMsg := fmt.Sprintf("Clean %d projects (%s)?", len(targets), fsutil.FormatBytes(totalSize))
		if m.dryRun {
			confirmMsg += " (DRY RUN)"
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(warningColor).Bold(true).Render(confirmMsg))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("y: yes • n: no"))

	case StateCleaning:
		total := len(m.selected())
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" cleaning...\n\n")
		var percent float64
		if total > 0 {
			percent = float64(m.cleanIndex) / float64(total)
		}
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		status := fmt.Sprintf("cleaned: %d/%d • %s freed", m.cleanIndex, total, fsutil.FormatBytes(m.cleanedSize))
		b.WriteString(mutedStyle.Render(status))

	case StateDone:
		b.WriteString("\n")
		if m.dryRun {
			b.WriteString(lipgloss.NewStyle().Foreground(secondaryColor).Bold(true).Render("dry run complete"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(successColor).Bold(true).Render("cleaning complete"))
		}
		b.WriteString("\n\n")
		summary := fmt.Sprintf("space freed: %s\nitems cleaned: %d", fsutil.FormatBytes(m.cleanedSize), m.cleanIndex)
		b.WriteString(summary)
		if m.lastErr != nil {
			b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(warningColor).Render("last error: "+m.lastErr.Error()))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("press enter or q to exit"))
	}

	return b.String()
}

// RunSelect starts the interactive cleanup flow.
func RunSelect(projects []model.Project, del DeleteFunc, dryRun bool) error {
	m := NewSelectModel(projects, del, dryRun)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
