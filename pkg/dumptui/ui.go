// Package dumptui renders the live entry list and detail views on top of
// bubbletea. Ingestion goroutines never touch the UI directly: bus events,
// store snapshots and log lines arrive over buffered channels that the
// model re-arms with Listen commands.
package dumptui

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumpstore"
	"github.com/dumpview/dumpview/pkg/dumptui/components"
	"github.com/dumpview/dumpview/pkg/dumptui/events"
	"github.com/dumpview/dumpview/pkg/dumptui/styles"
)

// storeRefreshInterval is the fallback periodic snapshot rate; event-driven
// refreshes arrive much faster via the debounced EntriesUpdated event.
const storeRefreshInterval = time.Second

// NetStats exposes the listener counters shown in the status bar.
type NetStats interface {
	ActiveConns() int64
	DecodeFailures() int64
}

// Focus tracks which component has focus
type Focus int

const (
	FocusEntries Focus = iota
	FocusLogs
	FocusDetail
)

// Manager manages the TUI lifecycle
type Manager struct {
	program         *tea.Program
	model           *RootModel
	store           *dumpstore.Store
	bus             *events.Bus
	eventCh         chan events.Event
	logCh           chan LogEntryMsg
	unsubscribe     events.UnsubscribeFunc
	storeCancel     func()
	stopChan        chan struct{}
	doneChan        chan struct{}
	originalOut     io.Writer
	triggerShutdown func()
}

// RootModel is the main bubbletea model
type RootModel struct {
	header    components.HeaderModel
	entries   components.EntriesModel
	logs      components.LogsModel
	statusBar components.StatusBarModel
	help      components.HelpModel
	detail    components.DetailModel

	store    *dumpstore.Store
	stats    NetStats
	focus    Focus
	quitting bool

	width         int
	height        int
	entriesHeight int
	logsHeight    int

	eventCh <-chan events.Event
	storeCh <-chan []*dumpentry.LogEntry
	logCh   <-chan LogEntryMsg
	stopCh  <-chan struct{}

	triggerShutdown func()
}

// Init wires the TUI to the store, event bus and listener stats. The logrus
// output is redirected into the logs panel until Run returns.
func Init(store *dumpstore.Store, bus *events.Bus, stats NetStats,
	shutdownChan <-chan struct{}, triggerShutdown func(),
	version, listenAddr string) *Manager {

	eventCh := make(chan events.Event, 100)
	logCh := make(chan LogEntryMsg, 100)

	m := &Manager{
		store:           store,
		bus:             bus,
		eventCh:         eventCh,
		logCh:           logCh,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
		triggerShutdown: triggerShutdown,
	}

	m.unsubscribe = bus.SubscribeAll(func(e events.Event) {
		select {
		case eventCh <- e:
		default:
			// Buffer full - drop rather than block the bus dispatcher
		}
	})

	storeCh, cancel := store.Subscribe(storeRefreshInterval)
	m.storeCancel = cancel

	m.model = newRootModel(store, stats, eventCh, storeCh, logCh,
		shutdownChan, triggerShutdown, version, listenAddr)

	m.originalOut = log.StandardLogger().Out
	log.SetOutput(io.Discard)
	log.AddHook(&tuiLogHook{logCh: logCh, stopCh: shutdownChan})

	return m
}

func newRootModel(store *dumpstore.Store, stats NetStats,
	eventCh <-chan events.Event, storeCh <-chan []*dumpentry.LogEntry,
	logCh <-chan LogEntryMsg, stopCh <-chan struct{},
	triggerShutdown func(), version, listenAddr string) *RootModel {

	return &RootModel{
		header:          components.NewHeaderModel(version, listenAddr),
		entries:         components.NewEntriesModel(),
		logs:            components.NewLogsModel(),
		statusBar:       components.NewStatusBarModel(),
		help:            components.NewHelpModel(),
		detail:          components.NewDetailModel(),
		store:           store,
		stats:           stats,
		focus:           FocusEntries,
		eventCh:         eventCh,
		storeCh:         storeCh,
		logCh:           logCh,
		stopCh:          stopCh,
		triggerShutdown: triggerShutdown,
	}
}

// Run starts the TUI application and blocks until it quits.
func (m *Manager) Run() error {
	if os.Getenv("TERM") == "" {
		_ = os.Setenv("TERM", "xterm-256color")
	}

	m.program = tea.NewProgram(
		m.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := m.program.Run()

	log.SetOutput(m.originalOut)

	if m.triggerShutdown != nil {
		m.triggerShutdown()
	}

	close(m.doneChan)
	return err
}

// Stop stops the TUI application
func (m *Manager) Stop() {
	select {
	case <-m.stopChan:
		return
	default:
		close(m.stopChan)
	}

	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.storeCancel != nil {
		m.storeCancel()
	}

	log.SetOutput(m.originalOut)

	if m.program != nil {
		m.program.Quit()
	}
}

// Done returns a channel that closes when the TUI has exited.
func (m *Manager) Done() <-chan struct{} {
	return m.doneChan
}

// RootModel methods

// Init initializes the model
func (m *RootModel) Init() tea.Cmd {
	return tea.Batch(
		ListenEvents(m.eventCh),
		ListenStore(m.storeCh),
		ListenLogs(m.logCh),
		ListenShutdown(m.stopCh),
		SendLog(log.InfoLevel, "dumpview started. Press ? for help, q to quit."),
	)
}

// Update handles messages
func (m *RootModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	// Panic recovery to prevent a render bug from leaving the terminal in a
	// broken state.
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("TUI Update panic recovered: %v", r)
			model = m
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSizeMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case DumpEventMsg:
		return m, m.handleDumpEventMsg(msg)
	case StoreUpdateMsg:
		return m, m.handleStoreUpdateMsg(msg)
	case LogEntryMsg:
		return m, m.handleLogEntryMsg(msg)
	case ShutdownMsg:
		return m.handleShutdownMsg()
	case components.OpenDetailMsg:
		m.openDetail(msg.SequenceID)
		return m, nil
	case RefreshMsg:
		m.refreshFromStore()
		return m, nil
	}

	return m, nil
}

// View renders the UI
func (m *RootModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	if m.help.IsVisible() {
		return m.help.View()
	}

	if m.detail.IsVisible() {
		return m.detail.View()
	}

	header := m.header.View()

	entriesFocusAccent := " "
	if m.focus == FocusEntries {
		entriesFocusAccent = styles.FocusAccentStyle.Render("▌")
	}
	entriesTitle := entriesFocusAccent + styles.SectionTitleStyle.Render("Dumps")
	entriesContent := lipgloss.NewStyle().
		Height(m.entriesHeight).
		Render(m.entries.View())

	logsFocusAccent := " "
	if m.focus == FocusLogs {
		logsFocusAccent = styles.FocusAccentStyle.Render("▌")
	}
	logsTitle := logsFocusAccent + styles.SectionTitleStyle.Render("Logs")
	logsContent := lipgloss.NewStyle().
		Height(m.logsHeight).
		Render(m.logs.View())

	status := m.statusBar.View()

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		entriesTitle,
		entriesContent,
		logsTitle,
		logsContent,
		status,
	)
}

// updateSizes recalculates component sizes
func (m *RootModel) updateSizes() {
	headerHeight := lipgloss.Height(m.header.View())
	statusHeight := lipgloss.Height(m.statusBar.View())
	if headerHeight < 1 {
		headerHeight = 1
	}
	if statusHeight < 1 {
		statusHeight = 1
	}

	// Fixed lines: section titles (2) + blank line after the header (1)
	fixedLines := 3

	contentWidth := m.width
	if contentWidth < 20 {
		contentWidth = 20
	}

	availableHeight := m.height - headerHeight - statusHeight - fixedLines
	if availableHeight < 10 {
		availableHeight = 10
	}

	// Split 75/25 between entries and logs
	logsHeight := availableHeight / 4
	entriesHeight := availableHeight - logsHeight

	if entriesHeight < 6 {
		entriesHeight = 6
	}
	if logsHeight < 3 {
		logsHeight = 3
	}

	m.entriesHeight = entriesHeight
	m.logsHeight = logsHeight

	m.entries.SetSize(contentWidth, entriesHeight)
	m.logs.SetSize(contentWidth, logsHeight)
	m.statusBar.SetWidth(m.width)
	m.detail.SetSize(m.width, m.height)
}

// cycleFocus switches focus between the entries table and the logs panel.
func (m *RootModel) cycleFocus() {
	switch m.focus {
	case FocusEntries:
		m.focus = FocusLogs
		m.entries.SetFocus(false)
		m.logs.SetFocus(true)
	case FocusLogs:
		m.focus = FocusEntries
		m.entries.SetFocus(true)
		m.logs.SetFocus(false)
	case FocusDetail:
		// Detail doesn't participate in tab cycling
	}
}

func (m *RootModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.updateSizes()
	m.header, _ = m.header.Update(msg)
	m.statusBar, _ = m.statusBar.Update(msg)
	m.help, _ = m.help.Update(msg)
}

func (m *RootModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Interrupt quits regardless of which overlay is open
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help modal captures all input when visible
	if m.help.IsVisible() {
		m.help, _ = m.help.Update(msg)
		return m, nil
	}

	// Detail view captures all input when visible, except quit
	if m.detail.IsVisible() {
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		if !m.detail.IsVisible() {
			m.focus = FocusEntries
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.help.Toggle()
		return m, nil
	case "tab":
		m.cycleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusEntries:
		m.entries, cmd = m.entries.Update(msg)
	case FocusLogs:
		m.logs, cmd = m.logs.Update(msg)
	case FocusDetail:
		// Handled above while the detail view is visible
	}
	return m, cmd
}

func (m *RootModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
		return m, nil
	}

	var cmd tea.Cmd
	if m.detail.IsVisible() {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case FocusEntries:
		m.entries, cmd = m.entries.Update(msg)
	case FocusLogs:
		m.logs, cmd = m.logs.Update(msg)
	case FocusDetail:
		// Detail visible case handled above
	}
	return m, cmd
}

// handleDumpEventMsg refreshes the view on coalesced entry updates and
// keeps the status counters current on connection events.
func (m *RootModel) handleDumpEventMsg(msg DumpEventMsg) tea.Cmd {
	switch msg.Event.Type {
	case events.EntriesUpdated:
		m.refreshFromStore()
	case events.ConnOpened, events.ConnClosed, events.DecodeFailed:
		m.updateStats()
	case events.EntryAdded, events.LogMessage, events.ShutdownStarted, events.ShutdownComplete:
		// EntryAdded is coalesced into EntriesUpdated; the rest are
		// handled elsewhere or ignored.
	}
	return ListenEvents(m.eventCh)
}

func (m *RootModel) handleStoreUpdateMsg(msg StoreUpdateMsg) tea.Cmd {
	m.entries.SetEntries(msg.Entries)
	m.updateStats()
	return ListenStore(m.storeCh)
}

func (m *RootModel) handleLogEntryMsg(msg LogEntryMsg) tea.Cmd {
	m.logs.AppendLog(msg.Level, msg.Message, msg.Time)
	return ListenLogs(m.logCh)
}

func (m *RootModel) handleShutdownMsg() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *RootModel) openDetail(seq int64) {
	entry := m.store.Get(seq)
	if entry == nil {
		return
	}
	m.detail.SetSize(m.width, m.height)
	m.detail.Show(entry)
	m.focus = FocusDetail
}

func (m *RootModel) refreshFromStore() {
	m.entries.SetEntries(m.store.Snapshot())
	m.updateStats()
}

func (m *RootModel) updateStats() {
	stats := components.SummaryStats{Entries: m.store.Count()}
	if m.stats != nil {
		stats.ActiveConns = m.stats.ActiveConns()
		stats.DecodeFailures = m.stats.DecodeFailures()
	}
	m.statusBar.UpdateStats(stats)
}

// tuiLogHook is a logrus hook that sends logs to the TUI
type tuiLogHook struct {
	logCh  chan<- LogEntryMsg
	stopCh <-chan struct{}
}

func (h *tuiLogHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *tuiLogHook) Fire(entry *log.Entry) error {
	select {
	case h.logCh <- LogEntryMsg{
		Level:   entry.Level,
		Message: entry.Message,
		Time:    entry.Time,
	}:
	default:
		// Buffer full - drop rather than block the logging call site
	}
	return nil
}
