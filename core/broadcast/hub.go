package broadcast

import (
	"sync"

	"token-aggregator/core/metrics"
	"token-aggregator/core/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBufferSize is the number of frames a client may lag behind.
const DefaultBufferSize = 256

// Sink receives a copy of every published frame.
type Sink interface {
	Publish(event string, payload []byte)
}

// Client is one registered subscriber.
type Client struct {
	ID string

	send     chan []byte
	channels map[string]struct{}
}

// Send returns the client's outbound frames. It is closed when the client is
// unregistered or dropped.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub tracks clients and their channels.
type Hub struct {
	logger     *zap.Logger
	metrics    *metrics.Metrics
	sinks      []Sink
	bufferSize int

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	channels map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger, m *metrics.Metrics, sinks ...Sink) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		metrics:    m,
		sinks:      sinks,
		bufferSize: DefaultBufferSize,
		clients:    make(map[*Client]struct{}),
		channels:   make(map[string]map[*Client]struct{}),
	}
}

// Register adds a client to the shared channel.
func (h *Hub) Register() *Client {
	c := &Client{
		ID:       uuid.NewString(),
		send:     make(chan []byte, h.bufferSize),
		channels: make(map[string]struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.join(c, SharedChannel)
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetConnectedClients(n)
	h.logger.Debug("Client registered", zap.String("client_id", c.ID), zap.Int("clients", n))
	return c
}

// Unregister removes a client and closes its send channel. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	for ch := range c.channels {
		h.leave(c, ch)
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetConnectedClients(n)
	h.logger.Debug("Client unregistered", zap.String("client_id", c.ID), zap.Int("clients", n))
}

// Subscribe adds a registered client to a named channel.
func (h *Hub) Subscribe(c *Client, channel string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok || channel == "" {
		return false
	}
	h.join(c, channel)
	return true
}

// Unsubscribe removes a client from a named channel. The shared channel cannot be left.
func (h *Hub) Unsubscribe(c *Client, channel string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok || channel == SharedChannel {
		return false
	}
	if _, ok := c.channels[channel]; !ok {
		return false
	}
	h.leave(c, channel)
	return true
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishFull sends a full snapshot to the shared channel.
func (h *Hub) PublishFull(snap *token.Snapshot) {
	tokens := []token.Token{}
	if snap != nil {
		tokens = snap.Tokens
	}
	h.PublishTo(SharedChannel, EventRefresh, tokens)
}

// PublishDelta sends a change-set to the shared channel.
func (h *Hub) PublishDelta(changes token.ChangeSet) {
	h.PublishTo(SharedChannel, EventUpdates, changes)
}

// PublishTo sends an event to every member of channel without blocking.
func (h *Hub) PublishTo(channel, event string, data any) {
	payload, err := NewEvent(event, channel, data).Encode()
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []*Client
	h.mu.RLock()
	members := len(h.channels[channel])
	for c := range h.channels[channel] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping client with full send buffer", zap.String("client_id", c.ID))
		h.metrics.RecordDroppedClient()
		h.Unregister(c)
	}

	for _, s := range h.sinks {
		s.Publish(event, payload)
	}

	h.metrics.RecordBroadcast(event)
	h.logger.Debug("Event published",
		zap.String("event", event),
		zap.String("channel", channel),
		zap.Int("recipients", members-len(slow)),
	)
}

// Reply sends an event to a single client without blocking.
func (h *Hub) Reply(c *Client, ev Event) {
	payload, err := ev.Encode()
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// Close unregisters every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}

func (h *Hub) join(c *Client, channel string) {
	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*Client]struct{})
		h.channels[channel] = members
	}
	members[c] = struct{}{}
	c.channels[channel] = struct{}{}
}

func (h *Hub) leave(c *Client, channel string) {
	delete(c.channels, channel)
	if members, ok := h.channels[channel]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
}
