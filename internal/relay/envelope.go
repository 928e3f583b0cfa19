// Package relay implements the live-content fan-out: the envelope wire
// format, the subscriber hub, and the per-subscriber writer.
package relay

import (
	"encoding/json"
	"time"
)

// Envelope type tags.
const (
	TypeConnected = "connected"
	TypeContent   = "content"
)

const connectedMessage = "Connected to live content server"

// Envelope is the tagged unit of data the relay transports between the
// publisher and its subscribers. Data is carried verbatim; the relay never
// interprets its shape.
type Envelope struct {
	Type      string          `json:"type"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// NewContentEnvelope builds a content envelope carrying the publisher payload
// and the relay-assigned broadcast time.
func NewContentEnvelope(data json.RawMessage, at time.Time) Envelope {
	return Envelope{
		Type:      TypeContent,
		Data:      data,
		Timestamp: FormatTimestamp(at),
	}
}

// NewConnectedEnvelope builds the handshake envelope sent once to each newly
// registered subscriber.
func NewConnectedEnvelope() Envelope {
	return Envelope{
		Type:    TypeConnected,
		Message: connectedMessage,
	}
}

// FormatTimestamp renders t as the ISO-8601 string used on the wire.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
