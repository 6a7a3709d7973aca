package broadcast

import (
	"time"

	"github.com/goccy/go-json"
)

// SharedChannel is the channel every client joins on registration.
const SharedChannel = "tokens"

// Event names.
const (
	EventRefresh      = "tokens-refresh"
	EventUpdates      = "token-updates"
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventError        = "error"
)

// Event is one server-to-client frame.
type Event struct {
	Event     string `json:"event"`
	Channel   string `json:"channel,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(name, channel string, data any) Event {
	return Event{
		Event:     name,
		Channel:   channel,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Encode serializes the event.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Command is one client-to-server frame.
type Command struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// DecodeCommand parses a client frame.
func DecodeCommand(raw []byte) (Command, error) {
	var cmd Command
	err := json.Unmarshal(raw, &cmd)
	return cmd, err
}
