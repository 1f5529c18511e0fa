package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

// SummaryStats holds the counters shown in the status bar.
type SummaryStats struct {
	Entries        int
	ActiveConns    int64
	DecodeFailures int64
}

// StatusBarModel displays summary statistics
type StatusBarModel struct {
	stats SummaryStats
	width int
}

// NewStatusBarModel creates a new status bar model
func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{}
}

// Init initializes the status bar model
func (m *StatusBarModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the status bar
func (m *StatusBarModel) Update(msg tea.Msg) (StatusBarModel, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
	}
	return *m, nil
}

// UpdateStats updates the displayed statistics
func (m *StatusBarModel) UpdateStats(stats SummaryStats) {
	m.stats = stats
}

// View renders the status bar
func (m *StatusBarModel) View() string {
	s := m.stats

	entries := fmt.Sprintf("Entries: %d", s.Entries)
	conns := fmt.Sprintf("Connections: %d", s.ActiveConns)

	var dropped string
	if s.DecodeFailures > 0 {
		dropped = styles.StatusBarErrorStyle.Render(fmt.Sprintf("Dropped: %d", s.DecodeFailures))
	} else {
		dropped = styles.StatusBarOkStyle.Render("Dropped: 0")
	}

	help := styles.StatusBarHelpStyle.Render("Press ? for help")

	left := fmt.Sprintf(" %s | %s | %s", entries, conns, dropped)

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(help)
	padding := m.width - leftWidth - rightWidth - 2
	if padding < 1 {
		padding = 1
	}

	spacer := lipgloss.NewStyle().Width(padding).Render("")
	return styles.StatusBarStyle.Render(left + spacer + help + " ")
}

// SetWidth updates the status bar width
func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}
