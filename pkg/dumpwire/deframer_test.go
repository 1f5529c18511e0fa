package dumpwire

import (
	"strings"
	"testing"
)

// feedAll pushes chunks through a fresh deframer and collects messages.
func feedAll(t *testing.T, chunks ...[]byte) []string {
	t.Helper()
	d := NewDeframer()
	var out []string
	for _, c := range chunks {
		msgs, _ := d.Feed(c)
		for _, m := range msgs {
			out = append(out, string(m))
		}
	}
	return out
}

func TestSingleMessage(t *testing.T) {
	msgs := feedAll(t, []byte(`{"a":1}`))
	if len(msgs) != 1 || msgs[0] != `{"a":1}` {
		t.Fatalf("expected one message, got %v", msgs)
	}
}

func TestMultipleMessagesOneChunk(t *testing.T) {
	msgs := feedAll(t, []byte(`{"a":1}{"b":2}{"c":3}`))
	want := []string{`{"a":1}`, `{"b":2}`, `{"c":3}`}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d: %v", len(want), len(msgs), msgs)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d: expected %s, got %s", i, want[i], msgs[i])
		}
	}
}

func TestByteByByte(t *testing.T) {
	payload := `{"time":"t1","data":{"object":{"x":1}},"label":"L1","backtrace":[]}` +
		`{"time":"t2","data":{"object":{"y":2}},"label":"L2","backtrace":[]}`

	d := NewDeframer()
	var msgs []string
	for i := 0; i < len(payload); i++ {
		out, err := d.Feed([]byte{payload[i]})
		if err != nil {
			t.Fatalf("byte %d: unexpected error %v", i, err)
		}
		for _, m := range out {
			msgs = append(msgs, string(m))
		}
	}

	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d: %v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], `"L1"`) || !strings.Contains(msgs[1], `"L2"`) {
		t.Errorf("messages out of order: %v", msgs)
	}
}

// Every possible two-way split of a message must produce the same result.
func TestAllSplitPoints(t *testing.T) {
	payload := `{"a":"}","b":{"c":[1,2,"{"]}}`
	for cut := 0; cut <= len(payload); cut++ {
		msgs := feedAll(t, []byte(payload[:cut]), []byte(payload[cut:]))
		if len(msgs) != 1 || msgs[0] != payload {
			t.Fatalf("split at %d: expected %s, got %v", cut, payload, msgs)
		}
	}
}

func TestBracesInsideStrings(t *testing.T) {
	tests := []string{
		`{"a":"}"}`,
		`{"a":"{{{"}`,
		`{"a":"\"}"}`,
		`{"a":"\\"}`,
		`{"a":"\\\"}"}`,
	}
	for _, payload := range tests {
		msgs := feedAll(t, []byte(payload))
		if len(msgs) != 1 || msgs[0] != payload {
			t.Errorf("payload %s: got %v", payload, msgs)
		}
	}
}

func TestWhitespaceAndNulBetweenMessages(t *testing.T) {
	msgs := feedAll(t, []byte("  {\"a\":1}\n\x00\t{\"b\":2}\x00"))
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
}

func TestStrayBytesReported(t *testing.T) {
	d := NewDeframer()
	msgs, err := d.Feed([]byte(`garbage{"a":1}`))
	if err != ErrStrayBytes {
		t.Errorf("expected ErrStrayBytes, got %v", err)
	}
	if len(msgs) != 1 || string(msgs[0]) != `{"a":1}` {
		t.Errorf("message after garbage not recovered: %v", msgs)
	}
	if d.Dropped() == 0 {
		t.Error("expected dropped counter to increase")
	}
}

func TestStateSurvivesGaps(t *testing.T) {
	d := NewDeframer()

	// Open a message, leave it hanging across several feeds.
	if msgs, _ := d.Feed([]byte(`{"a":"hel`)); len(msgs) != 0 {
		t.Fatalf("unexpected early message: %v", msgs)
	}
	if !d.Pending() {
		t.Fatal("expected pending partial message")
	}
	if msgs, _ := d.Feed(nil); len(msgs) != 0 {
		t.Fatal("empty feed must not emit")
	}
	msgs, err := d.Feed([]byte(`lo"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 1 || string(msgs[0]) != `{"a":"hello"}` {
		t.Fatalf("expected completed message, got %v", msgs)
	}
}

func TestCloseMidMessage(t *testing.T) {
	d := NewDeframer()
	_, _ = d.Feed([]byte(`{"a":`))
	if err := d.Close(); err != ErrTruncated {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	// Deframer is reusable after close.
	msgs, err := d.Feed([]byte(`{"b":2}`))
	if err != nil || len(msgs) != 1 {
		t.Errorf("deframer unusable after close: %v %v", msgs, err)
	}
}

func TestCloseClean(t *testing.T) {
	d := NewDeframer()
	_, _ = d.Feed([]byte(`{"a":1}`))
	if err := d.Close(); err != nil {
		t.Errorf("expected clean close, got %v", err)
	}
}

func TestOversizedMessageDiscarded(t *testing.T) {
	d := NewDeframer()
	// Open a message and pump it past the limit without closing it.
	_, _ = d.Feed([]byte(`{"a":"`))
	filler := make([]byte, MaxMessageSize)
	for i := range filler {
		filler[i] = 'x'
	}
	_, err := d.Feed(filler)
	if err != ErrMessageTooLarge {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
	if d.Pending() {
		t.Error("expected buffer discarded")
	}
	// Subsequent messages still work.
	msgs, err := d.Feed([]byte(`{"b":2}`))
	if err != nil || len(msgs) != 1 || string(msgs[0]) != `{"b":2}` {
		t.Errorf("deframer unusable after oversize: %v %v", msgs, err)
	}
}

func TestMessagesReturnedAreStable(t *testing.T) {
	d := NewDeframer()
	msgs, _ := d.Feed([]byte(`{"a":1}`))
	first := string(msgs[0])
	// Later feeds must not alias earlier results.
	_, _ = d.Feed([]byte(`{"bbbbbbbb":22222222}`))
	if string(msgs[0]) != first {
		t.Error("previously returned message was mutated by a later Feed")
	}
}
