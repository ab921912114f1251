package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// EventConnected is sent once to every new connection after it is subscribed.
const EventConnected = "connected"

// Message defines the structure for websocket messages.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// NewMessage encodes an event for delivery. It returns nil if payload cannot be encoded.
func NewMessage(event string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to encode websocket message")
		return nil
	}
	return data
}
