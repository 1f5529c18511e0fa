package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

// HelpModel displays keyboard shortcuts
type HelpModel struct {
	visible bool
	width   int
	height  int
}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help model
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help modal
func (m *HelpModel) Update(msg tea.Msg) (HelpModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if m.visible {
			switch msg.String() {
			case "?", "q", "esc":
				m.visible = false
			}
		}
	}
	return *m, nil
}

// Toggle toggles the help visibility
func (m *HelpModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns whether help is visible
func (m *HelpModel) IsVisible() bool {
	return m.visible
}

// Hide hides help
func (m *HelpModel) Hide() {
	m.visible = false
}

// View renders the help modal
func (m *HelpModel) View() string {
	if !m.visible {
		return ""
	}

	helpItems := []struct {
		key  string
		desc string
	}{
		{"Navigation", ""},
		{"j / ↓", "Move down / scroll"},
		{"k / ↑", "Move up / scroll"},
		{"g / Home", "Go to first"},
		{"G / End", "Go to last"},
		{"PgDn / PgUp", "Page down/up"},
		{"Tab", "Switch focus (entries/logs)"},
		{"", ""},
		{"Actions", ""},
		{"Enter", "Open entry detail"},
		{"Esc", "Close view"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var lines []string
	for _, item := range helpItems {
		if item.key == "" && item.desc == "" {
			lines = append(lines, "")
			continue
		}
		if item.desc == "" {
			lines = append(lines, styles.HelpTitleStyle.Render(item.key))
			continue
		}
		key := styles.HelpKeyStyle.Render(item.key)
		desc := styles.HelpDescStyle.Render(item.desc)
		lines = append(lines, key+desc)
	}

	content := strings.Join(lines, "\n")
	modal := styles.HelpModalStyle.Render(content)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}
