// Package feed broadcasts what the globe is showing to websocket clients, so
// an info card or a log can follow along without touching the render loop.
package feed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sudorandom/pr-globe/pkg/globe"
	"github.com/sudorandom/pr-globe/pkg/sources"
)

type EventType string

const (
	EventActivate  EventType = "activate"
	EventHighlight EventType = "highlight"
	EventSpike     EventType = "spike"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// coordinate drops invalid coordinates, which cannot be encoded as JSON.
func coordinate(c globe.GeoCoordinate) *Coordinate {
	if !globe.IsValidCoordinate(c) {
		return nil
	}
	return &Coordinate{Lat: c.Lat, Lon: c.Lon}
}

type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	Time      time.Time    `json:"time"`
	Index     int          `json:"index"`
	DataIndex int          `json:"data_index"`
	Origin    *Coordinate  `json:"origin,omitempty"`
	Merge     *Coordinate  `json:"merge,omitempty"`
	Info      sources.Info `json:"info"`
}

// NewEvent stamps an event with a fresh id and the current time. index is
// the arc or spike index, dataIndex the record it was built from.
func NewEvent(t EventType, index, dataIndex int, origin, merge globe.GeoCoordinate, info sources.Info) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Time:      time.Now().UTC(),
		Index:     index,
		DataIndex: dataIndex,
		Origin:    coordinate(origin),
		Merge:     coordinate(merge),
		Info:      info,
	}
}

const (
	writeWait      = 10 * time.Second
	clientQueueLen = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected websocket client. Publish never
// blocks; events are dropped when the hub or a client falls behind.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	events   chan Event
	upgrader websocket.Upgrader
	dropped  atomic.Uint64
}

func NewHub(buffer int) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		events:  make(chan Event, buffer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish queues ev and reports whether it was accepted.
func (h *Hub) Publish(ev Event) bool {
	select {
	case h.events <- ev:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// Dropped is the number of events that never reached at least one client.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run delivers queued events until ctx is done, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev := <-h.events:
			msg, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[FEED] Failed to encode %s event: %v", ev.Type, err)
				continue
			}
			h.broadcast(msg)
		}
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// ServeHTTP upgrades the request and streams events to it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[FEED] Upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientQueueLen)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("[FEED] Client connected from %s", r.RemoteAddr)

	go h.writeLoop(c)
	// Clients never send anything; reading only notices the close.
	go func() {
		defer h.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) writeLoop(c *client) {
	defer func() {
		if err := c.conn.Close(); err != nil {
			log.Printf("[FEED] Error closing connection: %v", err)
		}
	}()
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("[FEED] Write error: %v", err)
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Subscribe connects to a hub at url and calls fn for every event until ctx
// is done, reconnecting with backoff when the connection drops.
func Subscribe(ctx context.Context, url string, fn func(Event)) error {
	backoff := 1 * time.Second
	for {
		log.Printf("[FEED] Connecting to %s", url)
		c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[FEED] Dial error: %v. Retrying in %v...", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 60*time.Second {
				backoff = 60 * time.Second
			}
			continue
		}
		backoff = 1 * time.Second

		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[FEED] Read error: %v. Reconnecting...", err)
				}
				break
			}
			var ev Event
			if json.Unmarshal(message, &ev) != nil {
				continue
			}
			fn(ev)
		}
		stop()
		_ = c.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
