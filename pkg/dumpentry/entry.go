// Package dumpentry decodes deframed JSON messages into immutable log
// entries ready for the store.
package dumpentry

import (
	"time"

	"github.com/dumpview/dumpview/pkg/dumpval"
)

// BacktraceFrame is one call-stack frame attached to a dump. Class and
// CallType are optional and empty when the sender omitted them. Frames are
// kept in the order they arrived.
type BacktraceFrame struct {
	File     string
	Line     int64
	Function string
	Class    string
	CallType string
}

// LogEntry is the stored representation of one dump. SequenceID is zero
// until the store assigns it on append; after that the entry is never
// mutated.
type LogEntry struct {
	SequenceID int64
	ReceivedAt time.Time
	Label      string
	SourceTime string // as sent, never parsed
	Data       dumpval.Value
	Backtrace  []BacktraceFrame
}
