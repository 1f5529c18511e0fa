package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

// HeaderModel displays the application title, version and listen address.
type HeaderModel struct {
	version    string
	listenAddr string
	width      int
}

// NewHeaderModel creates a new header model
func NewHeaderModel(version, listenAddr string) HeaderModel {
	return HeaderModel{
		version:    version,
		listenAddr: listenAddr,
	}
}

// Init initializes the header model
func (m *HeaderModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the header
func (m *HeaderModel) Update(msg tea.Msg) (HeaderModel, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
	}
	return *m, nil
}

// View renders the header
func (m *HeaderModel) View() string {
	title := styles.HeaderTitleStyle.Render("dumpview")
	version := styles.HeaderVersionStyle.Render(" v" + m.version)
	leftPart := fmt.Sprintf(" %s%s", title, version)

	rightPart := styles.HeaderAddrStyle.Render("listening on " + m.listenAddr)

	leftWidth := lipgloss.Width(leftPart)
	rightWidth := lipgloss.Width(rightPart)
	spacing := m.width - leftWidth - rightWidth - 1
	if spacing < 1 {
		spacing = 1
	}

	return leftPart + strings.Repeat(" ", spacing) + rightPart
}

// SetWidth updates the header width
func (m *HeaderModel) SetWidth(width int) {
	m.width = width
}
