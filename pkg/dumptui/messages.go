package dumptui

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumptui/events"
)

// DumpEventMsg wraps bus events for the TUI
type DumpEventMsg struct {
	Event events.Event
}

// StoreUpdateMsg carries a store snapshot from the periodic subscription
type StoreUpdateMsg struct {
	Entries []*dumpentry.LogEntry
}

// LogEntryMsg represents a log message to display
type LogEntryMsg struct {
	Level   logrus.Level
	Message string
	Time    time.Time
}

// ShutdownMsg signals the TUI to shut down
type ShutdownMsg struct{}

// RefreshMsg triggers a UI refresh
type RefreshMsg struct{}
