// Package metrics defines the Prometheus collectors for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebSocket metrics
var (
	// WebSocketActiveConnections tracks currently open subscriber connections
	WebSocketActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_active_connections",
			Help: "Number of currently connected WebSocket subscribers",
		},
	)

	// WebSocketMessagesPublished tracks envelopes accepted for fan-out
	WebSocketMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_published_total",
			Help: "Total envelopes accepted for broadcast",
		},
	)

	// WebSocketMessagesDelivered tracks per-subscriber delivery attempts that
	// were handed to a subscriber's send buffer
	WebSocketMessagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_delivered_total",
			Help: "Total envelopes queued to subscriber send buffers",
		},
	)

	// WebSocketSlowClientDisconnects tracks subscribers dropped for full send buffers
	WebSocketSlowClientDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_client_disconnects_total",
			Help: "Total subscribers disconnected because their send buffer was full",
		},
	)

	// WebSocketConnectionsRejected tracks connections refused by the limiters
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "Total WebSocket connections rejected, by reason",
		},
		[]string{"reason"},
	)
)
