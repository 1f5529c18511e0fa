// Package dumpapi serves a read-only HTTP view of the entry store for
// scripting against a running dumpview session.
package dumpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dumpview/dumpview/pkg/dumpstore"
)

// NetStats exposes the listener counters reported by /api/status.
type NetStats interface {
	ActiveConns() int64
	DecodeFailures() int64
	FramingErrors() int64
}

// Manager manages the API server lifecycle
type Manager struct {
	server    *http.Server
	router    *gin.Engine
	stopChan  chan struct{}
	doneChan  chan struct{}
	startTime time.Time

	store      *dumpstore.Store
	stats      NetStats
	version    string
	listenAddr string
	apiAddr    string
}

// Init creates the API manager. The server does not accept connections
// until Run is called.
func Init(store *dumpstore.Store, stats NetStats, apiAddr, listenAddr, version string) *Manager {
	return &Manager{
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
		startTime:  time.Now(),
		store:      store,
		stats:      stats,
		version:    version,
		listenAddr: listenAddr,
		apiAddr:    apiAddr,
	}
}

// Run starts the API server and blocks until Stop is called or the server
// fails.
func (m *Manager) Run() error {
	if m.store == nil {
		return errors.New("entry store not configured")
	}

	gin.SetMode(gin.ReleaseMode)
	m.router = m.setupRouter()

	m.server = &http.Server{
		Addr:         m.apiAddr,
		Handler:      m.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("API listening on http://%s/api", m.apiAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := m.server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-m.stopChan:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.server.Shutdown(ctx); err != nil {
			log.Errorf("API server shutdown error: %v", err)
		}
	case err := <-errCh:
		close(m.doneChan)
		return errors.Wrap(err, "API server")
	}

	close(m.doneChan)
	return nil
}

// Stop stops the API server
func (m *Manager) Stop() {
	select {
	case <-m.stopChan:
		return // Already stopped
	default:
		close(m.stopChan)
	}
}

// Done returns a channel that closes when the API server is stopped
func (m *Manager) Done() <-chan struct{} {
	return m.doneChan
}

// Uptime returns the server uptime
func (m *Manager) Uptime() time.Duration {
	return time.Since(m.startTime)
}
