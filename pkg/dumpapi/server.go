package dumpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumpval"
)

const defaultEntriesLimit = 100

// statusResponse is the body of GET /api/status.
type statusResponse struct {
	Version        string `json:"version"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	ListenAddr     string `json:"listen_addr"`
	Entries        int    `json:"entries"`
	ActiveConns    int64  `json:"active_connections"`
	DecodeFailures int64  `json:"decode_failures"`
	FramingErrors  int64  `json:"framing_errors"`
}

// entrySummary is one element of GET /api/entries.
type entrySummary struct {
	SequenceID int64     `json:"sequence_id"`
	Label      string    `json:"label"`
	Time       string    `json:"time"`
	ReceivedAt time.Time `json:"received_at"`
	Frames     int       `json:"frames"`
}

// entriesResponse is the body of GET /api/entries.
type entriesResponse struct {
	Total   int            `json:"total"`
	Offset  int            `json:"offset"`
	Entries []entrySummary `json:"entries"`
}

// frameResponse mirrors one backtrace frame.
type frameResponse struct {
	File     string `json:"file"`
	Line     int64  `json:"line"`
	Function string `json:"function"`
	Class    string `json:"class,omitempty"`
	CallType string `json:"type,omitempty"`
}

// entryResponse is the body of GET /api/entries/:id. Data serializes in
// insertion order with the original number text.
type entryResponse struct {
	SequenceID int64           `json:"sequence_id"`
	Label      string          `json:"label"`
	Time       string          `json:"time"`
	ReceivedAt time.Time       `json:"received_at"`
	Data       dumpval.Value   `json:"data"`
	Backtrace  []frameResponse `json:"backtrace"`
}

// setupRouter creates the Gin router with all routes.
func (m *Manager) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/status", m.handleStatus)
		api.GET("/entries", m.handleEntries)
		api.GET("/entries/:id", m.handleEntry)
	}

	return r
}

func (m *Manager) handleStatus(c *gin.Context) {
	resp := statusResponse{
		Version:       m.version,
		UptimeSeconds: int64(m.Uptime().Seconds()),
		ListenAddr:    m.listenAddr,
		Entries:       m.store.Count(),
	}
	if m.stats != nil {
		resp.ActiveConns = m.stats.ActiveConns()
		resp.DecodeFailures = m.stats.DecodeFailures()
		resp.FramingErrors = m.stats.FramingErrors()
	}
	c.JSON(http.StatusOK, resp)
}

func (m *Manager) handleEntries(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultEntriesLimit)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	snapshot := m.store.Snapshot()
	total := len(snapshot)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	summaries := make([]entrySummary, 0, end-offset)
	for _, e := range snapshot[offset:end] {
		summaries = append(summaries, entrySummary{
			SequenceID: e.SequenceID,
			Label:      e.Label,
			Time:       e.SourceTime,
			ReceivedAt: e.ReceivedAt,
			Frames:     len(e.Backtrace),
		})
	}

	c.JSON(http.StatusOK, entriesResponse{
		Total:   total,
		Offset:  offset,
		Entries: summaries,
	})
}

func (m *Manager) handleEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	entry := m.store.Get(id)
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	c.JSON(http.StatusOK, toEntryResponse(entry))
}

func toEntryResponse(e *dumpentry.LogEntry) entryResponse {
	frames := make([]frameResponse, 0, len(e.Backtrace))
	for _, f := range e.Backtrace {
		frames = append(frames, frameResponse{
			File:     f.File,
			Line:     f.Line,
			Function: f.Function,
			Class:    f.Class,
			CallType: f.CallType,
		})
	}
	return entryResponse{
		SequenceID: e.SequenceID,
		Label:      e.Label,
		Time:       e.SourceTime,
		ReceivedAt: e.ReceivedAt,
		Data:       e.Data,
		Backtrace:  frames,
	}
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
