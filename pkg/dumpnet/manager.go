// Package dumpnet accepts TCP connections from dumping processes and feeds
// each connection through a deframer/decoder pipeline into the shared
// entry store. Every connection gets its own goroutine; a failure on one
// connection never affects the others or the store.
package dumpnet

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dumpview/dumpview/pkg/dumpentry"
	"github.com/dumpview/dumpview/pkg/dumpstore"
	"github.com/dumpview/dumpview/pkg/dumptui/events"
	"github.com/dumpview/dumpview/pkg/dumpwire"
)

// readPollInterval bounds how long a connection read can block. Each wake
// re-checks the stop channel, so shutdown is observed within one cycle
// even on a connection that never sends another byte.
const readPollInterval = 250 * time.Millisecond

// entriesUpdateDebounce coalesces bursts of appends into a single
// EntriesUpdated event for the UI.
const entriesUpdateDebounce = 100 * time.Millisecond

// Manager owns the listening socket and all connection goroutines.
type Manager struct {
	addr  string
	store *dumpstore.Store
	bus   *events.Bus

	ln       net.Listener
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}

	debounced func(func())

	activeConns    atomic.Int64
	decodeFailures atomic.Int64
	framingErrors  atomic.Int64
}

// NewManager creates a listener manager for the given TCP address.
func NewManager(addr string, store *dumpstore.Store, bus *events.Bus) *Manager {
	return &Manager{
		addr:      addr,
		store:     store,
		bus:       bus,
		stopCh:    make(chan struct{}),
		conns:     make(map[net.Conn]struct{}),
		debounced: debounce.New(entriesUpdateDebounce),
	}
}

// Start binds the port and begins accepting connections. A bind failure is
// returned to the caller; it is the one fatal startup error of the system.
func (m *Manager) Start() error {
	ln, err := net.Listen("tcp", m.addr)
	if err != nil {
		return errors.Wrapf(err, "binding %s", m.addr)
	}
	m.ln = ln

	log.Infof("Listening for dumps on %s", ln.Addr())

	m.wg.Add(1)
	go m.acceptLoop()
	return nil
}

// Addr returns the bound listen address, or empty before Start.
func (m *Manager) Addr() string {
	if m.ln == nil {
		return ""
	}
	return m.ln.Addr().String()
}

// Stop closes the listener and every open connection, then waits for all
// connection goroutines to exit.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.ln != nil {
			_ = m.ln.Close()
		}

		m.mu.Lock()
		for conn := range m.conns {
			_ = conn.Close()
		}
		m.mu.Unlock()
	})

	m.wg.Wait()
}

// ActiveConns returns the number of currently open connections.
func (m *Manager) ActiveConns() int64 {
	return m.activeConns.Load()
}

// DecodeFailures returns the number of messages dropped by the decoder.
func (m *Manager) DecodeFailures() int64 {
	return m.decodeFailures.Load()
}

// FramingErrors returns the number of framing errors across connections.
func (m *Manager) FramingErrors() int64 {
	return m.framingErrors.Load()
}

func (m *Manager) acceptLoop() {
	defer m.wg.Done()

	for {
		conn, err := m.ln.Accept()
		if err != nil {
			select {
			case <-m.stopCh:
				return
			default:
				log.Warnf("Accept error: %v", err)
				continue
			}
		}

		m.mu.Lock()
		m.conns[conn] = struct{}{}
		m.mu.Unlock()

		m.wg.Add(1)
		go m.handleConn(conn)
	}
}

// handleConn runs the deframer/decoder pipeline for one connection until
// EOF, a connection error, or shutdown.
func (m *Manager) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()

	m.activeConns.Add(1)
	m.bus.Publish(events.NewConnEvent(events.ConnOpened, remote, nil))
	log.Debugf("Connection opened: %s", remote)

	defer func() {
		m.mu.Lock()
		delete(m.conns, conn)
		m.mu.Unlock()
		_ = conn.Close()

		m.activeConns.Add(-1)
		m.bus.Publish(events.NewConnEvent(events.ConnClosed, remote, nil))
		log.Debugf("Connection closed: %s", remote)
		m.wg.Done()
	}()

	deframer := dumpwire.NewDeframer()
	buf := make([]byte, 32*1024)

	for {
		select {
		case <-m.stopCh:
			return
		default:
		}

		// Bounded read so the stop channel is re-checked on idle
		// connections. An unconditional blocking read here is exactly what
		// made the original tool impossible to quit.
		_ = conn.SetReadDeadline(time.Now().Add(readPollInterval))

		n, err := conn.Read(buf)
		if n > 0 {
			m.ingest(deframer, buf[:n], remote)
		}
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			// EOF or hard connection error: drop any partial message and
			// end only this connection.
			if closeErr := deframer.Close(); closeErr != nil {
				m.framingErrors.Add(1)
				log.Warnf("Discarding partial message from %s: %v", remote, closeErr)
			}
			return
		}
	}
}

// ingest feeds one chunk through the deframer and appends every decoded
// entry to the store.
func (m *Manager) ingest(deframer *dumpwire.Deframer, chunk []byte, remote string) {
	msgs, err := deframer.Feed(chunk)
	if err != nil {
		m.framingErrors.Add(1)
		log.Warnf("Framing error from %s: %v", remote, err)
	}

	for _, msg := range msgs {
		entry, err := dumpentry.Decode(msg)
		if err != nil {
			m.decodeFailures.Add(1)
			m.bus.Publish(events.NewConnEvent(events.DecodeFailed, remote, err))
			log.Warnf("Dropped undecodable message from %s: %v", remote, err)
			continue
		}

		seq := m.store.Append(entry)
		m.bus.Publish(events.NewEntryEvent(events.EntryAdded, seq, entry.Label))
		m.notifyEntriesUpdated()
	}
}

// notifyEntriesUpdated publishes a debounced EntriesUpdated event so a
// burst of appends triggers one UI refresh instead of hundreds.
func (m *Manager) notifyEntriesUpdated() {
	m.debounced(func() {
		m.bus.Publish(events.Event{Type: events.EntriesUpdated, Timestamp: time.Now()})
	})
}
