package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// clientBuffer bounds how many undelivered frames a slow client may hold
// before further events are dropped for it.
const clientBuffer = 16

// Hub is an in-process Broadcaster that streams events to connected dashboard
// clients over Server-Sent Events. Sends never block: a client whose buffer
// is full loses the event and must resynchronise with a full refetch.
type Hub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	logger  zerolog.Logger
}

// NewHub creates a new SSE hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
		logger:  logger.With().Str("component", "sse-hub").Logger(),
	}
}

// Publish serialises the event as an SSE frame and offers it to every
// connected client.
func (h *Hub) Publish(_ context.Context, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event.Name).Msg("failed to marshal event")
		return
	}
	frame := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Name, data))

	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for ch := range h.clients {
		select {
		case ch <- frame:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		h.logger.Warn().
			Str("event", event.Name).
			Int("dropped", dropped).
			Msg("event dropped for slow clients")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// ServeHTTP streams events to the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The server's write timeout would sever the stream; clear it for this
	// connection.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	h.logger.Debug().Str("remote_addr", r.RemoteAddr).Msg("dashboard client connected")

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug().Str("remote_addr", r.RemoteAddr).Msg("dashboard client disconnected")
			return
		case frame := <-ch:
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
