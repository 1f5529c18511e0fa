package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumptui/styles"
	"github.com/dumpview/dumpview/pkg/dumpval"
)

const treeIndent = "  "

// DetailModel displays one entry: timestamp, the dumped value as an
// indented tree, and the backtrace in received order.
type DetailModel struct {
	visible bool
	width   int
	height  int
	entry   *dumpentry.LogEntry

	viewport      viewport.Model
	viewportReady bool
}

// NewDetailModel creates a new detail view model
func NewDetailModel() DetailModel {
	return DetailModel{}
}

// Show opens the detail view for the given entry.
func (m *DetailModel) Show(entry *dumpentry.LogEntry) {
	m.visible = true
	m.entry = entry
	m.viewportReady = false
	m.initViewport()
}

// Hide closes the detail view
func (m *DetailModel) Hide() {
	m.visible = false
	m.entry = nil
}

// IsVisible returns whether the detail view is visible
func (m DetailModel) IsVisible() bool {
	return m.visible
}

// Entry returns the entry currently displayed, or nil.
func (m DetailModel) Entry() *dumpentry.LogEntry {
	return m.entry
}

// SetSize updates the dimensions
func (m *DetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.viewportReady {
		m.viewport.Width = m.contentWidth()
		m.viewport.Height = m.contentHeight()
	}
}

func (m *DetailModel) contentWidth() int {
	w := m.width - 12
	if w < 40 {
		w = 40
	}
	return w
}

func (m *DetailModel) contentHeight() int {
	// Box borders (2), padding (2), footer (2).
	h := m.height - 6 - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m *DetailModel) initViewport() {
	if m.viewportReady || m.entry == nil {
		return
	}
	m.viewport = viewport.New(m.contentWidth(), m.contentHeight())
	m.viewport.MouseWheelEnabled = true
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
	m.viewportReady = true
}

// Init implements tea.Model
func (m DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input for the detail view
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Hide()
			return m, nil
		case "j", "down":
			if m.viewportReady {
				m.viewport.ScrollDown(1)
			}
			return m, nil
		case "k", "up":
			if m.viewportReady {
				m.viewport.ScrollUp(1)
			}
			return m, nil
		case "g", "home":
			if m.viewportReady {
				m.viewport.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.viewportReady {
				m.viewport.GotoBottom()
			}
			return m, nil
		case "pgdown", "ctrl+d":
			if m.viewportReady {
				m.viewport.HalfViewDown()
			}
			return m, nil
		case "pgup", "ctrl+u":
			if m.viewportReady {
				m.viewport.HalfViewUp()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	if m.viewportReady {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// renderContent builds the scrollable body: timestamp, value tree, backtrace.
func (m *DetailModel) renderContent() string {
	if m.entry == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.DetailMetaStyle.Render("Logged on: " + m.entry.SourceTime))
	b.WriteString("\n\n")

	b.WriteString(styles.DetailSectionStyle.Render("VALUE"))
	b.WriteString("\n")
	for _, line := range RenderValueTree(m.entry.Data) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.entry.Backtrace) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.DetailSectionStyle.Render("BACKTRACE"))
		b.WriteString("\n")
		for _, frame := range m.entry.Backtrace {
			b.WriteString(renderFrame(frame))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderValueTree renders a value as indented lines, one node per line.
// Containers nest their children one level deeper.
func RenderValueTree(v dumpval.Value) []string {
	return renderValueLines("", v, 0)
}

func renderValueLines(key string, v dumpval.Value, depth int) []string {
	prefix := strings.Repeat(treeIndent, depth)
	label := ""
	if key != "" {
		label = styles.TreeKeyStyle.Render(key) + styles.TreeBranchStyle.Render(": ")
	}

	switch v.Kind {
	case dumpval.KindObject:
		lines := []string{prefix + label + styles.TreeBranchStyle.Render("{")}
		for _, member := range v.Members {
			lines = append(lines, renderValueLines(member.Key, member.Value, depth+1)...)
		}
		return append(lines, prefix+styles.TreeBranchStyle.Render("}"))

	case dumpval.KindArray:
		lines := []string{prefix + label + styles.TreeBranchStyle.Render("[")}
		for i, elem := range v.Elems {
			lines = append(lines, renderValueLines(fmt.Sprintf("%d", i), elem, depth+1)...)
		}
		return append(lines, prefix+styles.TreeBranchStyle.Render("]"))

	default:
		return []string{prefix + label + renderScalar(v)}
	}
}

func renderScalar(v dumpval.Value) string {
	switch v.Kind {
	case dumpval.KindNull:
		return styles.TreeNullStyle.Render("null")
	case dumpval.KindBool:
		if v.Bool {
			return styles.TreeBoolStyle.Render("true")
		}
		return styles.TreeBoolStyle.Render("false")
	case dumpval.KindNumber:
		return styles.TreeNumberStyle.Render(v.Number.String())
	case dumpval.KindString:
		return styles.TreeStringStyle.Render(fmt.Sprintf("%q", v.Str))
	default:
		return ""
	}
}

// renderFrame formats one backtrace frame: file:line, the function (with
// class and call type when the frame carries them).
func renderFrame(f dumpentry.BacktraceFrame) string {
	var b strings.Builder
	b.WriteString(treeIndent)
	b.WriteString(styles.FrameFileStyle.Render(f.File))
	b.WriteString(styles.TreeBranchStyle.Render(":"))
	b.WriteString(styles.FrameLineStyle.Render(fmt.Sprintf("%d", f.Line)))

	if f.Function != "" {
		b.WriteString("  ")
		name := f.Function
		if f.Class != "" {
			sep := f.CallType
			if sep == "" {
				sep = "::"
			}
			name = f.Class + sep + f.Function
		}
		b.WriteString(styles.FrameFuncStyle.Render(name + "()"))
	}

	return b.String()
}

// View renders the detail view centered in the window.
func (m *DetailModel) View() string {
	if !m.visible || m.entry == nil {
		return ""
	}

	contentWidth := m.contentWidth()
	boxHeight := m.height - 6
	if boxHeight < 15 {
		boxHeight = 15
	}

	var b strings.Builder

	title := styles.DetailLabelStyle.Render(m.entry.Label)
	seq := styles.DetailMetaStyle.Render(fmt.Sprintf("  #%d", m.entry.SequenceID))
	b.WriteString(title + seq)
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	footer := styles.DetailFooterKeyStyle.Render("[Esc]") + " Back  " +
		styles.DetailFooterKeyStyle.Render("[j/k]") + " Scroll  " +
		styles.DetailFooterKeyStyle.Render("[g/G]") + " Top/Bottom"
	b.WriteString(styles.DetailFooterStyle.Render(footer))

	boxStyle := styles.DetailBorderStyle.
		Width(contentWidth).
		Height(boxHeight - 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(b.String()),
	)
}
