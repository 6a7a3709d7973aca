package cmd

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"token-aggregator/core/broadcast"
	"token-aggregator/core/logger"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var (
	watchURL      string
	watchChannels []string
)

// watchCmd connects to a running server and prints pushed events.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live token events from a running server",
	Long: `Connects to the websocket endpoint and logs every event it receives.

Examples:
  watch
  watch --url ws://localhost:8080/ws --channel watchlist`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8080/ws", "Websocket endpoint")
	watchCmd.Flags().StringSliceVar(&watchChannels, "channel", nil, "Extra channels to subscribe to")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	l, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	u, err := url.Parse(watchURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", u, err)
	}
	defer conn.Close()
	l.Info("Connected", zap.String("url", u.String()))

	for _, ch := range watchChannels {
		if err := conn.WriteJSON(broadcast.Command{Type: "subscribe", Channel: ch}); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", ch, err)
		}
	}

	done := make(chan error, 1)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				done <- err
				return
			}
			logEvent(l, msg)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return nil
	case err := <-done:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			l.Info("Server closed the connection")
			return nil
		}
		return fmt.Errorf("connection lost: %w", err)
	}
}

func logEvent(l *zap.Logger, msg []byte) {
	ev := gjson.ParseBytes(msg)
	fields := []zap.Field{
		zap.String("channel", ev.Get("channel").String()),
		zap.String("timestamp", ev.Get("timestamp").String()),
	}

	switch ev.Get("event").String() {
	case broadcast.EventRefresh:
		l.Info("Full refresh", append(fields, zap.Int64("tokens", ev.Get("data.#").Int()))...)
	case broadcast.EventUpdates:
		ev.Get("data").ForEach(func(_, t gjson.Result) bool {
			l.Info("Token updated", append(fields,
				zap.String("symbol", t.Get("symbol").String()),
				zap.String("address", t.Get("tokenAddress").String()),
				zap.Float64("priceUsd", t.Get("priceUsd").Float()),
				zap.Float64("volume24h", t.Get("volume24h").Float()),
			)...)
			return true
		})
	case broadcast.EventError:
		l.Warn("Server error", append(fields, zap.String("error", ev.Get("error").String()))...)
	default:
		l.Info(ev.Get("event").String(), fields...)
	}
}
