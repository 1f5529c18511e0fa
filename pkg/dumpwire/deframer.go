// Package dumpwire splits a raw TCP byte stream into discrete JSON
// messages. Senders write top-level JSON objects back to back with no
// length prefix and no delimiter, so message boundaries are recovered by
// tracking brace depth and string state across arbitrary chunk splits.
package dumpwire

import (
	"github.com/pkg/errors"
)

// MaxMessageSize caps the carry-over buffer for one message. A dump larger
// than this is treated as a framing error and the buffer is discarded.
const MaxMessageSize = 16 << 20

var (
	// ErrStrayBytes reports non-whitespace bytes outside any message.
	ErrStrayBytes = errors.New("dumpwire: discarded bytes outside a JSON object")

	// ErrMessageTooLarge reports a message exceeding MaxMessageSize.
	ErrMessageTooLarge = errors.New("dumpwire: message exceeds size limit")

	// ErrTruncated reports a partial message pending at connection close.
	ErrTruncated = errors.New("dumpwire: connection closed mid-message")
)

// Deframer extracts complete top-level JSON objects from a sequence of
// byte chunks. Chunk boundaries carry no meaning: a message may span any
// number of chunks and one chunk may carry any number of messages. The
// zero value is not usable; call NewDeframer.
type Deframer struct {
	buf        []byte
	scanned    int  // bytes of buf already consumed by the scanner
	start      int  // offset of the current message's '{', -1 when idle
	depth      int  // brace depth inside the current message
	inString   bool // scanner is inside a string literal
	escapeNext bool // previous byte was a backslash inside a string
	dropped    int  // framing errors seen on this connection
}

// NewDeframer returns a deframer for one connection.
func NewDeframer() *Deframer {
	return &Deframer{start: -1}
}

// Feed appends one chunk and returns every message completed by it, in
// arrival order. The returned slices are copies and remain valid after
// further Feed calls. A non-nil error reports bytes discarded during this
// chunk (stray bytes between messages, oversized message); messages
// scanned before and after the discard are still returned, and the
// deframer stays usable.
func (d *Deframer) Feed(chunk []byte) ([][]byte, error) {
	d.buf = append(d.buf, chunk...)

	var msgs [][]byte
	var err error

	for i := d.scanned; i < len(d.buf); i++ {
		b := d.buf[i]

		if d.start < 0 {
			// Between messages: wait for an opening brace. Whitespace and
			// NUL separators (some senders terminate with NUL) are inert.
			switch b {
			case '{':
				d.start = i
				d.depth = 1
			case ' ', '\t', '\r', '\n', 0:
			default:
				d.dropped++
				err = ErrStrayBytes
			}
			continue
		}

		if d.inString {
			switch {
			case d.escapeNext:
				d.escapeNext = false
			case b == '\\':
				d.escapeNext = true
			case b == '"':
				d.inString = false
			}
			continue
		}

		switch b {
		case '"':
			d.inString = true
		case '{':
			d.depth++
		case '}':
			d.depth--
			if d.depth == 0 {
				msg := make([]byte, i+1-d.start)
				copy(msg, d.buf[d.start:i+1])
				msgs = append(msgs, msg)
				d.start = -1
			}
		}
	}
	d.scanned = len(d.buf)

	d.compact()

	if d.start >= 0 && len(d.buf) > MaxMessageSize {
		d.dropped++
		d.reset()
		err = ErrMessageTooLarge
	}

	return msgs, err
}

// compact drops consumed bytes, keeping only the in-progress message.
func (d *Deframer) compact() {
	keepFrom := len(d.buf)
	if d.start >= 0 {
		keepFrom = d.start
	}
	if keepFrom == 0 {
		return
	}
	n := copy(d.buf, d.buf[keepFrom:])
	d.buf = d.buf[:n]
	d.scanned -= keepFrom
	if d.start >= 0 {
		d.start = 0
	}
}

// reset discards all buffered data and scanner state.
func (d *Deframer) reset() {
	d.buf = d.buf[:0]
	d.scanned = 0
	d.start = -1
	d.depth = 0
	d.inString = false
	d.escapeNext = false
}

// Close reports whether the connection ended mid-message. The partial
// buffer is discarded either way.
func (d *Deframer) Close() error {
	pending := d.start >= 0
	d.reset()
	if pending {
		d.dropped++
		return ErrTruncated
	}
	return nil
}

// Pending reports whether a partial message is buffered.
func (d *Deframer) Pending() bool {
	return d.start >= 0
}

// Dropped returns the number of framing errors seen on this connection.
func (d *Deframer) Dropped() int {
	return d.dropped
}
