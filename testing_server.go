package equitywire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	gws "github.com/gorilla/websocket"
)

// wsBackend is an in-process stand-in for the research backend's
// /ws/{client_id} route, used by integration tests. One connection per
// client id, like the real connection manager.
type wsBackend struct {
	srv      *httptest.Server
	upgrader gws.Upgrader

	mu    sync.Mutex
	conns map[string]*gws.Conn

	received chan []byte

	grp errgroup.Group
}

func newWsBackend() *wsBackend {
	b := &wsBackend{
		upgrader: gws.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns:    make(map[string]*gws.Conn),
		received: make(chan []byte, 64),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *wsBackend) host() string {
	return strings.TrimPrefix(b.srv.URL, "http://")
}

func (b *wsBackend) handle(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimPrefix(r.URL.Path, "/ws/")
	if clientID == r.URL.Path || clientID == "" {
		http.NotFound(w, r)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	b.mu.Lock()
	b.conns[clientID] = conn
	b.mu.Unlock()

	b.grp.Go(func() error {
		defer func() {
			b.mu.Lock()
			if b.conns[clientID] == conn {
				delete(b.conns, clientID)
			}
			b.mu.Unlock()
			_ = conn.Close()
		}()

		for {
			_, bts, err := conn.ReadMessage()
			if err != nil {
				return nil
			}
			select {
			case b.received <- bts:
			default:
			}
		}
	})
}

// push delivers a JSON record to the given client, the way the backend's
// connection manager pushes progress events.
func (b *wsBackend) push(clientID string, record map[string]any) error {
	b.mu.Lock()
	conn := b.conns[clientID]
	b.mu.Unlock()

	if conn == nil {
		return errors.Errorf("no such client: %s", clientID)
	}
	return conn.WriteJSON(record)
}

// drop force-closes the given client's channel to simulate a loss.
func (b *wsBackend) drop(clientID string) {
	b.mu.Lock()
	conn := b.conns[clientID]
	delete(b.conns, clientID)
	b.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (b *wsBackend) connected(clientID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conns[clientID] != nil
}

func (b *wsBackend) close() {
	b.mu.Lock()
	for id, conn := range b.conns {
		_ = conn.Close()
		delete(b.conns, id)
	}
	b.mu.Unlock()

	b.srv.Close()
	_ = b.grp.Wait()
}
