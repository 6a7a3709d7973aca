package stream

import (
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"token-aggregator/core/broadcast"
	"token-aggregator/core/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func startServer(t *testing.T, origin string) (*broadcast.Hub, string) {
	t.Helper()
	hub := broadcast.NewHub(zap.NewNop(), nil)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	require.NoError(t, NewFeature(hub, origin, zap.NewNop()).Load(app))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return hub, "ws://" + ln.Addr().String() + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) gjson.Result {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return gjson.ParseBytes(msg)
}

func TestStream_ReceivesBroadcasts(t *testing.T) {
	hub, url := startServer(t, "*")
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PublishFull(token.NewSnapshot([]token.Token{{Address: "AAA", PriceUSD: 1}}, time.Now()))
	frame := read(t, conn)
	assert.Equal(t, broadcast.EventRefresh, frame.Get("event").String())
	assert.Equal(t, "AAA", frame.Get("data.0.tokenAddress").String())

	hub.PublishDelta(token.ChangeSet{{Address: "AAA", PriceUSD: 2}})
	frame = read(t, conn)
	assert.Equal(t, broadcast.EventUpdates, frame.Get("event").String())
	assert.Equal(t, 2.0, frame.Get("data.0.priceUsd").Float())
}

func TestStream_SubscribeCommands(t *testing.T) {
	hub, url := startServer(t, "")
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "channel": "watchlist"}))
	frame := read(t, conn)
	assert.Equal(t, broadcast.EventSubscribed, frame.Get("event").String())
	assert.Equal(t, "watchlist", frame.Get("channel").String())

	hub.PublishTo("watchlist", broadcast.EventUpdates, []string{"AAA"})
	frame = read(t, conn)
	assert.Equal(t, "watchlist", frame.Get("channel").String())

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "unsubscribe", "channel": "watchlist"}))
	assert.Equal(t, broadcast.EventUnsubscribed, read(t, conn).Get("event").String())

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "dance"}))
	frame = read(t, conn)
	assert.Equal(t, broadcast.EventError, frame.Get("event").String())
	assert.Equal(t, "unknown message type", frame.Get("error").String())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "invalid message format", read(t, conn).Get("error").String())
}

func TestStream_DisconnectUnregisters(t *testing.T) {
	hub, url := startServer(t, "*")
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	_ = conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStream_RequiresUpgrade(t *testing.T) {
	app := fiber.New()
	require.NoError(t, NewFeature(broadcast.NewHub(nil, nil), "*", zap.NewNop()).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestNewHandler_Origins(t *testing.T) {
	assert.Nil(t, NewHandler(nil, "*", zap.NewNop()).origins)
	assert.Nil(t, NewHandler(nil, "", zap.NewNop()).origins)
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		NewHandler(nil, "https://a.example, https://b.example", zap.NewNop()).origins)
}
