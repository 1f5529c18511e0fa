package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

// OpenDetailMsg is sent when the detail view should open for an entry.
type OpenDetailMsg struct {
	SequenceID int64
}

// Column keys
const (
	colKeySeq   = "seq"
	colKeyLabel = "label"
	colKeyTime  = "time"
)

// EntriesModel displays the received dump entries as a table. The newest
// entry is the last row; the selection follows it only while the user is
// already on the last row.
type EntriesModel struct {
	table    table.Model
	count    int
	width    int
	height   int
	pageSize int
	focused  bool
}

// NewEntriesModel creates the entries table model.
func NewEntriesModel() EntriesModel {
	columns := []table.Column{
		table.NewColumn(colKeySeq, "#", 6),
		table.NewFlexColumn(colKeyLabel, "Label", 3),
		table.NewColumn(colKeyTime, "Time", 28),
	}

	m := EntriesModel{focused: true}
	m.table = table.New(columns).
		WithBaseStyle(lipgloss.NewStyle().Padding(0, 1)).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		HighlightStyle(styles.TableSelectedStyle).
		Focused(true).
		WithPageSize(20).
		WithFooterVisibility(false)

	return m
}

// Init initializes the entries model
func (m *EntriesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the entries table
func (m *EntriesModel) Update(msg tea.Msg) (EntriesModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.table.WithTargetWidth(m.width - 2)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			for range 3 {
				m.table = m.table.WithHighlightedRow(m.table.GetHighlightedRowIndex() - 1)
			}
		case tea.MouseButtonWheelDown:
			for range 3 {
				m.table = m.table.WithHighlightedRow(m.table.GetHighlightedRowIndex() + 1)
			}
		default:
			// Other mouse buttons not handled
		}
		return *m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			seq := m.GetSelectedSeq()
			if seq > 0 {
				return *m, func() tea.Msg { return OpenDetailMsg{SequenceID: seq} }
			}
			return *m, nil
		// The table's own row navigation wraps past the ends; selection here
		// clamps to [0, count-1] instead, so handle movement directly.
		case "j", "down":
			if m.count > 0 && m.table.GetHighlightedRowIndex() < m.count-1 {
				m.table = m.table.WithHighlightedRow(m.table.GetHighlightedRowIndex() + 1)
			}
			return *m, nil
		case "k", "up":
			if m.count > 0 && m.table.GetHighlightedRowIndex() > 0 {
				m.table = m.table.WithHighlightedRow(m.table.GetHighlightedRowIndex() - 1)
			}
			return *m, nil
		case "g", "home":
			m.table = m.table.WithHighlightedRow(0)
			return *m, nil
		case "G", "end":
			m.table = m.table.WithHighlightedRow(m.count - 1)
			return *m, nil
		case "pgdown":
			m.table = m.table.PageDown()
			return *m, nil
		case "pgup":
			m.table = m.table.PageUp()
			return *m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return *m, cmd
}

// SetEntries replaces the table rows with the given snapshot. The selection
// jumps to the new last row only when it was pinned to the last row before
// the update; a user who scrolled away stays where they are.
func (m *EntriesModel) SetEntries(entries []*dumpentry.LogEntry) {
	wasPinned := m.count == 0 || m.table.GetHighlightedRowIndex() == m.count-1

	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.NewRow(table.RowData{
			colKeySeq:   fmt.Sprintf("%d", e.SequenceID),
			colKeyLabel: e.Label,
			colKeyTime:  e.SourceTime,
		}))
	}

	m.count = len(entries)
	m.table = m.table.WithRows(rows)
	if m.width > 0 {
		m.table = m.table.WithTargetWidth(m.width - 2)
	}

	if wasPinned && m.count > 0 {
		m.table = m.table.WithHighlightedRow(m.count - 1)
	}
}

// GetSelectedSeq returns the sequence ID of the highlighted row, or 0 when
// the table is empty.
func (m *EntriesModel) GetSelectedSeq() int64 {
	if m.count == 0 {
		return 0
	}
	idx := m.table.GetHighlightedRowIndex()
	if idx < 0 || idx >= m.count {
		return 0
	}
	// Sequence IDs are dense from 1, so row index maps directly.
	return int64(idx + 1)
}

// SelectedIndex returns the highlighted row index, or -1 when empty.
func (m *EntriesModel) SelectedIndex() int {
	if m.count == 0 {
		return -1
	}
	return m.table.GetHighlightedRowIndex()
}

// Count returns the number of rows.
func (m *EntriesModel) Count() int {
	return m.count
}

// View renders the entries table (no border - parent handles that)
func (m *EntriesModel) View() string {
	if m.count == 0 {
		return styles.StatusBarHelpStyle.Render(" Waiting for dumps...")
	}
	return m.table.View()
}

// SetFocus sets the focus state of the table
func (m *EntriesModel) SetFocus(focused bool) {
	m.focused = focused
	m.table = m.table.Focused(focused)
}

// SetSize updates the table dimensions
func (m *EntriesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table = m.table.WithTargetWidth(width - 2)
	// Table chrome with BorderRounded(): top border + header + separator +
	// bottom border = 4 reserved lines.
	pageSize := height - 4
	if pageSize < 1 {
		pageSize = 1
	}
	m.pageSize = pageSize
	m.table = m.table.WithPageSize(pageSize)
}
