// Package transport implements the thin preview transport from spec.md
// §6.5: a message pair (PreviewUpdate, FileEvent) delivered either over
// in-process channels or, optionally, a WebSocket. Grounded on
// dpotapov-go-pages/pages.go's ServeHTTP websocket branch: a
// gorilla/websocket upgrade, a read loop feeding a channel, and a render
// loop that writes out whenever new state is ready — adapted here so the
// "render loop" publishes internal/workspace.UpdateResult patches instead
// of re-rendering HTML.
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/paperclip-lang/paperclip/internal/diff"
	"github.com/paperclip-lang/paperclip/internal/logx"
	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// PreviewUpdate is the message pushed to subscribers after a workspace
// re-evaluation (spec.md §6.5), mirroring internal/workspace.UpdateResult's
// shape over the wire.
type PreviewUpdate struct {
	Path     string         `json:"path"`
	Version  int            `json:"version"`
	Initial  bool           `json:"initial"`
	Document *vdom.Document `json:"document,omitempty"`
	Styles   []vdom.CssRule `json:"styles,omitempty"`
	Patches  []diff.Patch   `json:"patches,omitempty"`
}

// FileEvent is a client-to-server message requesting re-evaluation of one
// file's new source (spec.md §6.5 "watch_files").
type FileEvent struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

// Broker is a minimal in-process publish/subscribe hub for PreviewUpdates
// (spec.md §6.5: "in-process channels are a valid transport"). Each
// subscriber gets its own buffered channel; a slow subscriber drops
// updates rather than blocking Publish.
type Broker struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[int]chan PreviewUpdate
	next int
}

// NewBroker returns an empty Broker.
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{logger: logx.Default(logger), subs: map[int]chan PreviewUpdate{}}
}

// Subscribe registers a new listener and returns its channel plus an
// unsubscribe function.
func (b *Broker) Subscribe() (<-chan PreviewUpdate, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan PreviewUpdate, 16)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers update to every current subscriber, dropping it for any
// subscriber whose buffer is full instead of blocking.
func (b *Broker) Publish(update PreviewUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- update:
		default:
			b.logger.Warn("dropping preview update for slow subscriber", slog.Int("subscriber", id), slog.String("path", update.Path))
		}
	}
}

// wsUpgrader mirrors pages.go's package-level gorilla/websocket.Upgrader.
var wsUpgrader = websocket.Upgrader{}

// Conn wraps a single WebSocket connection for the preview stream: reading
// FileEvents from the client and writing PreviewUpdates published on
// Broker (spec.md §6.5), the same read-goroutine/write-loop split as
// pages.go's websocket branch.
type Conn struct {
	ws     *websocket.Conn
	logger *slog.Logger
}

// Upgrade upgrades an HTTP request to a WebSocket, matching
// pages.go's `wsUpgrader.Upgrade(w, r, nil)` call.
func Upgrade(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*Conn, error) {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	conn := &Conn{ws: ws, logger: logx.Default(logger)}
	conn.logger.Debug("preview connection upgraded", slog.String("remote", r.RemoteAddr))
	return conn, nil
}

// IsWebSocketUpgrade reports whether r is requesting a WebSocket upgrade,
// matching pages.go's `websocket.IsWebSocketUpgrade(r)` guard.
func IsWebSocketUpgrade(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}

// Close closes the underlying WebSocket.
func (c *Conn) Close() error { return c.ws.Close() }

// ReadFileEvent blocks for the next FileEvent sent by the client (spec.md
// §6.5 "watch_files"), matching pages.go's `ws.ReadJSON(&newVars)` call.
func (c *Conn) ReadFileEvent() (FileEvent, error) {
	var ev FileEvent
	if err := c.ws.ReadJSON(&ev); err != nil {
		return FileEvent{}, err
	}
	return ev, nil
}

// WriteUpdate serializes and sends one PreviewUpdate, matching pages.go's
// `ws.NextWriter(websocket.TextMessage)` + encode + Close pattern.
func (c *Conn) WriteUpdate(update PreviewUpdate) error {
	w, err := c.ws.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(update); err != nil {
		return err
	}
	return w.Close()
}
