package dumpentry

import (
	"testing"

	"github.com/dumpview/dumpview/pkg/dumpval"
)

func TestDecodeFullMessage(t *testing.T) {
	msg := `{
		"time": "2024-01-15 10:30:00",
		"data": {"object": {"user": "ada", "id": 42}},
		"label": "login",
		"backtrace": [
			{"file": "auth.php", "line": 12, "function": "login", "class": "Auth", "type": "::"},
			{"file": "index.php", "line": 3, "function": "main"}
		]
	}`

	entry, err := Decode([]byte(msg))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if entry.Label != "login" {
		t.Errorf("expected label login, got %q", entry.Label)
	}
	if entry.SourceTime != "2024-01-15 10:30:00" {
		t.Errorf("expected source time preserved, got %q", entry.SourceTime)
	}
	if entry.SequenceID != 0 {
		t.Errorf("sequence ID must be unset before store append, got %d", entry.SequenceID)
	}
	if entry.ReceivedAt.IsZero() {
		t.Error("expected ReceivedAt to be set")
	}

	if entry.Data.Kind != dumpval.KindObject {
		t.Fatalf("expected object data, got %v", entry.Data.Kind)
	}
	user, ok := entry.Data.Lookup("user")
	if !ok || user.Str != "ada" {
		t.Errorf("expected data.object unwrapped, got %+v", entry.Data)
	}

	if len(entry.Backtrace) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(entry.Backtrace))
	}
	first := entry.Backtrace[0]
	if first.File != "auth.php" || first.Line != 12 || first.Function != "login" {
		t.Errorf("frame 0 mismatch: %+v", first)
	}
	if first.Class != "Auth" || first.CallType != "::" {
		t.Errorf("optional frame fields not decoded: %+v", first)
	}
	second := entry.Backtrace[1]
	if second.Class != "" || second.CallType != "" {
		t.Errorf("absent optional fields must stay empty: %+v", second)
	}
}

func TestDecodeDataFallback(t *testing.T) {
	// Without a data.object wrapper the data value is used verbatim.
	entry, err := Decode([]byte(`{"time":"t","label":"l","data":{"x":1,"y":2}}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if _, ok := entry.Data.Lookup("x"); !ok {
		t.Errorf("expected data used verbatim, got %+v", entry.Data)
	}
}

func TestDecodeMissingData(t *testing.T) {
	entry, err := Decode([]byte(`{"time":"t","label":"l"}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if entry.Data.Kind != dumpval.KindNull {
		t.Errorf("expected null data, got %v", entry.Data.Kind)
	}
	if len(entry.Backtrace) != 0 {
		t.Errorf("expected empty backtrace, got %v", entry.Backtrace)
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"missing label", `{"time":"t","data":{}}`},
		{"missing time", `{"label":"l","data":{}}`},
		{"label wrong type", `{"time":"t","label":7}`},
		{"time wrong type", `{"time":false,"label":"l"}`},
		{"not an object", `[1,2,3]`},
		{"invalid json", `{"time":"t",`},
		{"backtrace not array", `{"time":"t","label":"l","backtrace":{}}`},
		{"frame not object", `{"time":"t","label":"l","backtrace":[7]}`},
		{"frame line not number", `{"time":"t","label":"l","backtrace":[{"line":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.msg)); err == nil {
				t.Errorf("expected decode failure for %s", tt.msg)
			}
		})
	}
}

func TestDecodePreservesUnknownKeysInData(t *testing.T) {
	entry, err := Decode([]byte(`{"time":"t","label":"l","data":{"object":{"custom":{"deep":[1]}}},"extra":"ignored"}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	custom, ok := entry.Data.Lookup("custom")
	if !ok || custom.Kind != dumpval.KindObject {
		t.Errorf("nested unknown keys inside data must be preserved: %+v", entry.Data)
	}
}

func TestDecodeNumberPrecision(t *testing.T) {
	entry, err := Decode([]byte(`{"time":"t","label":"l","data":{"object":{"amount":0.1,"big":9007199254740993}}}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	amount, _ := entry.Data.Lookup("amount")
	if amount.Number.String() != "0.1" {
		t.Errorf("expected 0.1 preserved, got %s", amount.Number)
	}
	big, _ := entry.Data.Lookup("big")
	if big.Number.String() != "9007199254740993" {
		t.Errorf("expected big integer preserved, got %s", big.Number)
	}
}
