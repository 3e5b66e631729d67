package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/HerbHall/hostpanel/internal/event"
	"github.com/HerbHall/hostpanel/internal/themes"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotSource resolves the current palette.
type SnapshotSource interface {
	Snapshot(ctx context.Context, now time.Time) (*themes.Snapshot, error)
}

// Handler streams palette changes to browsers over WebSocket.
type Handler struct {
	hub         *Hub
	source      SnapshotSource
	logger      *zap.Logger
	now         func() time.Time
	unsubscribe []func()
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to palette changes.
// bus may be nil, in which case clients only receive the initial snapshot.
func NewHandler(source SnapshotSource, bus event.Subscriber, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		source: source,
		logger: logger,
		now:    time.Now,
	}
	if bus != nil {
		h.unsubscribe = []func(){
			bus.Subscribe(event.TopicPaletteChanged, h.onPaletteChanged),
			bus.Subscribe(event.TopicPresetConflict, h.onPresetConflict),
		}
	}
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/theme", h.handleThemeStream)
}

// Close stops forwarding bus events.
func (h *Handler) Close() {
	for _, unsubscribe := range h.unsubscribe {
		unsubscribe()
	}
	h.unsubscribe = nil
}

// ClientCount returns the number of connected clients.
func (h *Handler) ClientCount() int {
	return h.hub.ClientCount()
}

// handleThemeStream upgrades the connection, sends the current palette and
// then relays every change until the client disconnects.
func (h *Handler) handleThemeStream(w http.ResponseWriter, r *http.Request) {
	// The server's read/write timeouts would otherwise cut the stream.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := newClient(conn, uuid.NewString(), h.logger)

	if msg, ok := h.message(r.Context(), MessageThemeSnapshot, event.PaletteChanged{}); ok {
		client.send <- msg
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Clients never send; CloseRead discards their frames and ends ctx on close.
	ctx := conn.CloseRead(r.Context())
	client.writePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) onPaletteChanged(ctx context.Context, e event.Event) {
	change, _ := e.Payload.(event.PaletteChanged)
	if msg, ok := h.message(ctx, MessageThemeUpdated, change); ok {
		h.hub.Broadcast(msg)
	}
}

func (h *Handler) onPresetConflict(_ context.Context, e event.Event) {
	conflict, ok := e.Payload.(event.PresetConflict)
	if !ok {
		return
	}
	h.hub.Broadcast(Message{
		Type:      MessagePresetConflict,
		Timestamp: conflict.At,
		Data:      ConflictData{SelectedKey: conflict.SelectedKey},
	})
}

func (h *Handler) message(ctx context.Context, typ MessageType, change event.PaletteChanged) (Message, bool) {
	snap, err := h.source.Snapshot(ctx, h.now())
	if err != nil {
		h.logger.Warn("failed to resolve palette for websocket", zap.Error(err))
		return Message{}, false
	}
	return Message{
		Type:      typ,
		Timestamp: snap.GeneratedAt,
		Data: ThemeData{
			Reason:    change.Reason,
			PresetKey: snap.ActivePreset.Key,
			CSS:       snap.CSS,
		},
	}, true
}
