package events

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EventType represents the type of TUI event
type EventType int

const (
	// Entry lifecycle events
	EntryAdded EventType = iota
	EntriesUpdated

	// Connection lifecycle events
	ConnOpened
	ConnClosed
	DecodeFailed

	// Log events
	LogMessage

	// Application lifecycle events
	ShutdownStarted
	ShutdownComplete
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EntryAdded:
		return "EntryAdded"
	case EntriesUpdated:
		return "EntriesUpdated"
	case ConnOpened:
		return "ConnOpened"
	case ConnClosed:
		return "ConnClosed"
	case DecodeFailed:
		return "DecodeFailed"
	case LogMessage:
		return "LogMessage"
	case ShutdownStarted:
		return "ShutdownStarted"
	case ShutdownComplete:
		return "ShutdownComplete"
	default:
		return "Unknown"
	}
}

// Event carries everything a subscriber may need; only the fields relevant
// to Type are populated.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Entry identification
	SequenceID int64
	Label      string

	// Connection info
	RemoteAddr string

	// Status
	Error error

	// Log info
	LogLevel   logrus.Level
	LogMessage string
}

// NewEntryEvent creates an entry-related event
func NewEntryEvent(eventType EventType, seq int64, label string) Event {
	return Event{
		Type:       eventType,
		Timestamp:  time.Now(),
		SequenceID: seq,
		Label:      label,
	}
}

// NewConnEvent creates a connection-related event
func NewConnEvent(eventType EventType, remoteAddr string, err error) Event {
	return Event{
		Type:       eventType,
		Timestamp:  time.Now(),
		RemoteAddr: remoteAddr,
		Error:      err,
	}
}

// NewLogEvent creates a log message event
func NewLogEvent(level logrus.Level, message string) Event {
	return Event{
		Type:       LogMessage,
		Timestamp:  time.Now(),
		LogLevel:   level,
		LogMessage: message,
	}
}
