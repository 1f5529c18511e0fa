package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

const maxLogLines = 1000

// LogLine is one diagnostic message shown in the logs panel.
type LogLine struct {
	Time    time.Time
	Level   logrus.Level
	Message string
}

// LogsModel displays scrollable diagnostic log output
type LogsModel struct {
	viewport viewport.Model
	logs     []LogLine
	width    int
	height   int
	focused  bool
	ready    bool
}

// NewLogsModel creates a new logs model
func NewLogsModel() LogsModel {
	return LogsModel{
		logs: make([]LogLine, 0, maxLogLines),
	}
}

// Init initializes the logs model
func (m LogsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the logs viewport
func (m LogsModel) Update(msg tea.Msg) (LogsModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.focused {
			switch msg.String() {
			case "j", "down":
				m.viewport.ScrollDown(1)
			case "k", "up":
				m.viewport.ScrollUp(1)
			case "g", "home":
				m.viewport.GotoTop()
			case "G", "end":
				m.viewport.GotoBottom()
			case "pgdown":
				m.viewport.HalfViewDown()
			case "pgup":
				m.viewport.HalfViewUp()
			}
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// AppendLog adds a log line and scrolls to the bottom.
func (m *LogsModel) AppendLog(level logrus.Level, message string, t time.Time) {
	m.logs = append(m.logs, LogLine{Time: t, Level: level, Message: message})
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}

	m.updateContent()
	if m.ready {
		m.viewport.GotoBottom()
	}
}

// updateContent rebuilds the viewport content from logs
func (m *LogsModel) updateContent() {
	if !m.ready {
		return
	}

	var sb strings.Builder
	for _, line := range m.logs {
		sb.WriteString(m.formatLogLine(line))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
}

func (m *LogsModel) formatLogLine(line LogLine) string {
	timestamp := styles.LogTimestampStyle.Render(line.Time.Format("[15:04:05]"))
	message := strings.TrimRight(line.Message, "\n\r")

	var levelStyle lipgloss.Style
	var levelStr string
	switch line.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		levelStyle = styles.LogErrorStyle
		levelStr = "ERROR"
	case logrus.WarnLevel:
		levelStyle = styles.LogWarnStyle
		levelStr = "WARN"
	case logrus.InfoLevel:
		levelStyle = styles.LogInfoStyle
		levelStr = "INFO"
	default:
		levelStyle = styles.LogDebugStyle
		levelStr = "DEBUG"
	}

	level := levelStyle.Render(fmt.Sprintf("[%s]", levelStr))
	return fmt.Sprintf("%s%s %s", timestamp, level, message)
}

// View renders the logs viewport (no border - parent handles that)
func (m LogsModel) View() string {
	if !m.ready {
		return ""
	}
	return m.viewport.View()
}

// SetFocus sets the focus state
func (m *LogsModel) SetFocus(focused bool) {
	m.focused = focused
}

// Count returns the number of buffered log lines.
func (m *LogsModel) Count() int {
	return len(m.logs)
}

// SetSize updates the viewport dimensions
func (m *LogsModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.viewport.Style = lipgloss.NewStyle()
		m.viewport.MouseWheelEnabled = true
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.updateContent()
}
