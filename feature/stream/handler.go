package stream

import (
	"strings"
	"time"

	"token-aggregator/core/broadcast"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Handler upgrades connections and pumps frames between them and the hub.
type Handler struct {
	hub     *broadcast.Hub
	logger  *zap.Logger
	origins []string
}

// NewHandler creates a websocket handler. origin is a comma-separated allow list,
// "*" or empty allows any origin.
func NewHandler(hub *broadcast.Hub, origin string, logger *zap.Logger) *Handler {
	var origins []string
	if origin != "" && origin != "*" {
		for _, o := range strings.Split(origin, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return &Handler{hub: hub, logger: logger, origins: origins}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Use("/ws", upgradeRequired)
	app.Get("/ws", websocket.New(h.serve, websocket.Config{
		Origins:         h.origins,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
}

// upgradeRequired rejects plain HTTP requests to the websocket endpoint.
// @Summary Token stream
// @Description Websocket endpoint pushing tokens-refresh and token-updates events.
// @Tags stream
// @Success 101 {string} string "Switching Protocols"
// @Failure 426 {string} string "Upgrade Required"
// @Router /ws [get]
func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *Handler) serve(conn *websocket.Conn) {
	client := h.hub.Register()
	l := h.logger.With(zap.String("client_id", client.ID))
	l.Info("Client connected", zap.Int("clients", h.hub.ClientCount()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(conn, client, l)
	}()

	h.readPump(conn, client, l)
	h.hub.Unregister(client)
	<-done

	l.Info("Client disconnected", zap.Int("clients", h.hub.ClientCount()))
}

// readPump handles subscription commands until the connection fails.
func (h *Handler) readPump(conn *websocket.Conn, client *broadcast.Client, l *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				l.Warn("Websocket read error", zap.Error(err))
			}
			return
		}
		h.handleCommand(client, message, l)
	}
}

func (h *Handler) handleCommand(client *broadcast.Client, message []byte, l *zap.Logger) {
	cmd, err := broadcast.DecodeCommand(message)
	if err != nil {
		h.reply(client, broadcast.EventError, "", "invalid message format")
		return
	}

	switch cmd.Type {
	case "subscribe":
		if !h.hub.Subscribe(client, cmd.Channel) {
			h.reply(client, broadcast.EventError, cmd.Channel, "cannot subscribe to channel")
			return
		}
		l.Debug("Client subscribed", zap.String("channel", cmd.Channel))
		h.reply(client, broadcast.EventSubscribed, cmd.Channel, "")
	case "unsubscribe":
		if !h.hub.Unsubscribe(client, cmd.Channel) {
			h.reply(client, broadcast.EventError, cmd.Channel, "not subscribed to channel")
			return
		}
		l.Debug("Client unsubscribed", zap.String("channel", cmd.Channel))
		h.reply(client, broadcast.EventUnsubscribed, cmd.Channel, "")
	default:
		h.reply(client, broadcast.EventError, cmd.Channel, "unknown message type")
	}
}

func (h *Handler) reply(client *broadcast.Client, event, channel, errMsg string) {
	ev := broadcast.NewEvent(event, channel, nil)
	ev.Error = errMsg
	h.hub.Reply(client, ev)
}

// writePump forwards hub frames and keeps the connection alive with pings.
// It closes the connection on exit so that readPump unblocks.
func (h *Handler) writePump(conn *websocket.Conn, client *broadcast.Client, l *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-client.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				l.Debug("Websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
