package dumpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumpstore"
	"github.com/dumpview/dumpview/pkg/dumpval"
)

type fakeStats struct {
	conns    int64
	failures int64
	framing  int64
}

func (f *fakeStats) ActiveConns() int64    { return f.conns }
func (f *fakeStats) DecodeFailures() int64 { return f.failures }
func (f *fakeStats) FramingErrors() int64  { return f.framing }

func newTestManager(t *testing.T) (*Manager, *dumpstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := dumpstore.NewStore()
	t.Cleanup(store.Stop)

	m := Init(store, &fakeStats{conns: 1, failures: 2}, "127.0.0.1:0", "127.0.0.1:9337", "0.0.1")
	m.router = m.setupRouter()
	return m, store
}

func doGet(t *testing.T, m *Manager, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)
	return w
}

func TestStatusEndpoint(t *testing.T) {
	m, store := newTestManager(t)
	store.Append(&dumpentry.LogEntry{Label: "a", Data: dumpval.Null()})

	w := doGet(t, m, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Version != "0.0.1" {
		t.Errorf("version %q", resp.Version)
	}
	if resp.Entries != 1 {
		t.Errorf("entries %d", resp.Entries)
	}
	if resp.ActiveConns != 1 || resp.DecodeFailures != 2 {
		t.Errorf("stats wrong: %+v", resp)
	}
	if resp.ListenAddr != "127.0.0.1:9337" {
		t.Errorf("listen addr %q", resp.ListenAddr)
	}
}

func TestEntriesListWithPaging(t *testing.T) {
	m, store := newTestManager(t)
	for i := 0; i < 5; i++ {
		store.Append(&dumpentry.LogEntry{
			Label:      "x",
			SourceTime: "t",
			ReceivedAt: time.Now(),
			Data:       dumpval.Null(),
		})
	}

	w := doGet(t, m, "/api/entries?limit=2&offset=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp entriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("total %d", resp.Total)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].SequenceID != 2 || resp.Entries[1].SequenceID != 3 {
		t.Errorf("wrong page: %+v", resp.Entries)
	}
}

func TestEntriesListBadParams(t *testing.T) {
	m, _ := newTestManager(t)

	for _, path := range []string{
		"/api/entries?limit=abc",
		"/api/entries?offset=-1",
	} {
		if w := doGet(t, m, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestEntryByIDPreservesValueShape(t *testing.T) {
	m, store := newTestManager(t)
	store.Append(&dumpentry.LogEntry{
		Label:      "order",
		SourceTime: "2026-08-23 10:00:00",
		Data: dumpval.NewObject([]dumpval.Member{
			{Key: "zeta", Value: dumpval.NewNumber("0.1")},
			{Key: "alpha", Value: dumpval.NewNumber("9007199254740993")},
		}),
		Backtrace: []dumpentry.BacktraceFrame{
			{File: "app.rb", Line: 10, Function: "call", Class: "Svc", CallType: "#"},
		},
	})

	w := doGet(t, m, "/api/entries/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	// Insertion order and number text survive re-serialization.
	if strings.Index(body, "zeta") > strings.Index(body, "alpha") {
		t.Error("member order not preserved in API output")
	}
	for _, want := range []string{"0.1", "9007199254740993", `"class":"Svc"`, `"type":"#"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
}

func TestEntryByIDErrors(t *testing.T) {
	m, _ := newTestManager(t)

	if w := doGet(t, m, "/api/entries/abc"); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: expected 400, got %d", w.Code)
	}
	if w := doGet(t, m, "/api/entries/7"); w.Code != http.StatusNotFound {
		t.Errorf("missing id: expected 404, got %d", w.Code)
	}
}
