package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// sendBufferSize is small: only the newest palette matters to a client.
	sendBufferSize = 8
	writeTimeout   = 5 * time.Second
	pingInterval   = 30 * time.Second
)

var (
	connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hostpanel_ws_clients",
		Help: "Theme stream clients currently connected.",
	})
	supersededMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostpanel_ws_superseded_messages_total",
		Help: "Queued theme updates discarded in favor of a newer one.",
	})
)

func init() {
	prometheus.MustRegister(connectedClients, supersededMessages)
}

// Client is one connected theme stream.
type Client struct {
	conn   *websocket.Conn
	id     string
	send   chan Message
	logger *zap.Logger
}

func newClient(conn *websocket.Conn, id string, logger *zap.Logger) *Client {
	return &Client{
		conn:   conn,
		id:     id,
		send:   make(chan Message, sendBufferSize),
		logger: logger.With(zap.String("client_id", id)),
	}
}

// Hub fans theme messages out to every registered client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds c to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	connectedClients.Inc()
	h.logger.Debug("theme stream connected", zap.String("client_id", c.id))
}

// Unregister removes c and closes its send channel. It is safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		connectedClients.Dec()
		h.logger.Debug("theme stream disconnected", zap.String("client_id", c.id))
	}
}

// Broadcast queues msg for every client. A client whose queue is full loses
// its oldest queued message instead, so it always ends on the newest palette.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if offer(c.send, msg) {
			continue
		}
		select {
		case <-c.send:
			supersededMessages.Inc()
		default:
		}
		if !offer(c.send, msg) {
			h.logger.Warn("theme stream queue still full, update dropped", zap.String("client_id", c.id))
		}
	}
}

func offer(ch chan Message, msg Message) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump writes queued messages and keepalive pings until ctx ends, the
// hub closes the queue, or a write fails. ctx must come from conn.CloseRead
// so pongs are read.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, c.conn, msg)
			cancel()
			if err != nil {
				c.logger.Debug("theme stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.logger.Debug("theme stream ping failed", zap.Error(err))
				return
			}
		}
	}
}
