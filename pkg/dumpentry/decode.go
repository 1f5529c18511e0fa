package dumpentry

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dumpview/dumpview/pkg/dumpval"
)

// Decode converts one complete JSON message into a LogEntry. The expected
// shape is:
//
//	{
//	  "time": "<string>",
//	  "data": { "object": { ... } },
//	  "label": "<string>",
//	  "backtrace": [ {"file": "...", "line": 1, "function": "...",
//	                  "class": "..."?, "type": "..."?}, ... ]
//	}
//
// When data carries an "object" member its value is the dump; otherwise
// the data value itself is used verbatim. backtrace may be absent. A
// failure here drops only this message, never the connection.
func Decode(msg []byte) (*LogEntry, error) {
	root, err := dumpval.Parse(msg)
	if err != nil {
		return nil, errors.Wrap(err, "parsing message")
	}
	if root.Kind != dumpval.KindObject {
		return nil, errors.New("message is not a JSON object")
	}

	sourceTime, err := requireString(root, "time")
	if err != nil {
		return nil, err
	}
	label, err := requireString(root, "label")
	if err != nil {
		return nil, err
	}

	entry := &LogEntry{
		ReceivedAt: time.Now(),
		Label:      label,
		SourceTime: sourceTime,
		Data:       extractData(root),
	}

	if bt, ok := root.Lookup("backtrace"); ok {
		frames, err := decodeBacktrace(bt)
		if err != nil {
			return nil, err
		}
		entry.Backtrace = frames
	}

	return entry, nil
}

// extractData picks the dumped value. The common case wraps the dump in
// data.object; anything else falls back to the data value verbatim, and a
// missing data member decodes as null.
func extractData(root dumpval.Value) dumpval.Value {
	data, ok := root.Lookup("data")
	if !ok {
		return dumpval.Null()
	}
	if inner, ok := data.Lookup("object"); ok {
		return inner
	}
	return data
}

func requireString(obj dumpval.Value, key string) (string, error) {
	v, ok := obj.Lookup(key)
	if !ok {
		return "", errors.Errorf("missing required field %q", key)
	}
	if v.Kind != dumpval.KindString {
		return "", errors.Errorf("field %q is %s, expected string", key, v.Kind)
	}
	return v.Str, nil
}

func decodeBacktrace(bt dumpval.Value) ([]BacktraceFrame, error) {
	if bt.Kind != dumpval.KindArray {
		return nil, errors.Errorf("backtrace is %s, expected array", bt.Kind)
	}

	frames := make([]BacktraceFrame, 0, len(bt.Elems))
	for i, el := range bt.Elems {
		if el.Kind != dumpval.KindObject {
			return nil, errors.Errorf("backtrace frame %d is %s, expected object", i, el.Kind)
		}
		frame := BacktraceFrame{}
		if f, ok := el.Lookup("file"); ok {
			if f.Kind != dumpval.KindString {
				return nil, errors.Errorf("backtrace frame %d: file is %s, expected string", i, f.Kind)
			}
			frame.File = f.Str
		}
		if l, ok := el.Lookup("line"); ok {
			if l.Kind != dumpval.KindNumber {
				return nil, errors.Errorf("backtrace frame %d: line is %s, expected integer", i, l.Kind)
			}
			n, err := l.Number.Int64()
			if err != nil {
				return nil, errors.Wrapf(err, "backtrace frame %d: line", i)
			}
			frame.Line = n
		}
		if fn, ok := el.Lookup("function"); ok && fn.Kind == dumpval.KindString {
			frame.Function = fn.Str
		}
		if c, ok := el.Lookup("class"); ok && c.Kind == dumpval.KindString {
			frame.Class = c.Str
		}
		if ct, ok := el.Lookup("type"); ok && ct.Kind == dumpval.KindString {
			frame.CallType = ct.Str
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
