// Package livegfx implements the live search telemetry sinks (spec.md
// §9's live-gfx mention, SPEC_FULL.md §4.10, component C10): a
// termenv-colored terminal progress line and a gorilla/websocket
// broadcast hub streaming JSON progress samples (game count, elapsed
// time, and the root's most-visited move with its mean and count), both
// cadence-gated by
// the uct.Config.LiveGfxCadence global parameter and fed from
// internal/uct.Searcher's OnSample hook. The hub is grounded on
// TheKrainBow-gomoku/backend/analitics_ws.go's AnaliticsHub — a
// buffered-channel fan-out with non-blocking Publish, repurposed from
// "analysis queue depth" events to "MCTS progress sample" events.
package livegfx

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Sample is one snapshot of search progress, built by the caller from
// the root's current children (internal/engine owns the tree, so it
// fills this in before handing it to Hub.Publish/Terminal.Print).
type Sample struct {
	Games     int64         `json:"games"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	BestMove  string        `json:"best_move"`
	BestMean  float64       `json:"best_mean"`
	BestCount int64         `json:"best_count"`
}

type message struct {
	Type    string  `json:"type"`
	Payload Sample  `json:"payload"`
}

// Client is one connected websocket listener.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans out Sample snapshots to every connected Client over
// websocket, matching AnaliticsHub's buffered-broadcast-channel shape.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan Sample
	done      chan struct{}
}

// NewHub returns a Hub; call Run in its own goroutine to start fan-out.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan Sample, 64),
		done:      make(chan struct{}),
	}
}

// Run drains the broadcast channel until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case sample := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				c.sendJSON(sample)
			}
			h.mu.Unlock()
		}
	}
}

// Stop ends Run.
func (h *Hub) Stop() { close(h.done) }

// Publish enqueues a sample for broadcast, dropping it rather than
// blocking the search loop if the channel is momentarily full.
func (h *Hub) Publish(sample Sample) {
	select {
	case h.broadcast <- sample:
	default:
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *Client) sendJSON(s Sample) {
	data, err := json.Marshal(message{Type: "sample", Payload: s})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// ServeHTTP upgrades a connection and registers it against the hub
// until the client disconnects, matching serveAnaliticsWS's loop shape.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register(client)

	go func() {
		defer conn.Close()
		for msg := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(client)
			return
		}
	}
}
