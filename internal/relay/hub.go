package relay

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/cquayle/demohead/internal/metrics"
)

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	data   []byte
	doneCh chan struct{}
}

func (cmdBroadcast) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) hubCmd() {}

// subscriber is the hub's handle for one open connection. Identity is the
// connection pointer itself; the uuid exists only for log lines.
type subscriber struct {
	writer *subscriberWriter
	id     uuid.UUID
}

// --- Hub ---

// Hub is the subscriber registry and broadcaster in one actor: a single run
// goroutine owns the subscriber set and processes registrations,
// deregistrations and fan-out passes in arrival order. Each broadcast
// therefore sees a consistent point-in-time membership, and two broadcasts
// reach any given subscriber in the order they were issued.
type Hub struct {
	cmdCh       chan hubCmd
	clock       clockwork.Clock
	subscribers map[*websocket.Conn]*subscriber
	handshake   []byte
}

// NewHub creates a hub and starts its run loop.
func NewHub(clock clockwork.Clock) *Hub {
	handshake, err := json.Marshal(NewConnectedEnvelope())
	if err != nil {
		// A constant envelope cannot fail to marshal.
		panic(err)
	}

	h := &Hub{
		cmdCh:       make(chan hubCmd, 256),
		clock:       clock,
		subscribers: make(map[*websocket.Conn]*subscriber),
		handshake:   handshake,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c.data)
			close(c.doneCh)
		case cmdClientCount:
			c.replyCh <- len(h.subscribers)
		case cmdStop:
			h.handleStop()
			close(c.doneCh)
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	// Re-registering an open connection must not create a duplicate entry
	// or a second handshake.
	if _, exists := h.subscribers[c.conn]; exists {
		c.errCh <- nil
		return
	}

	sub := &subscriber{
		writer: newSubscriberWriter(c.conn, h.clock),
		id:     uuid.New(),
	}
	h.subscribers[c.conn] = sub
	metrics.WebSocketActiveConnections.Inc()

	// Handshake goes to this subscriber only, never through a broadcast.
	// The writer buffer is empty at this point, so the send cannot drop.
	select {
	case sub.writer.sendChannel <- h.handshake:
	default:
	}

	slog.Info("Subscriber registered", "subscriber_id", sub.id, "total", len(h.subscribers))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	sub, exists := h.subscribers[conn]
	if !exists {
		// Close and broadcast failure both race to remove the same
		// subscriber; the loser is a no-op.
		return
	}

	sub.writer.stop()
	delete(h.subscribers, conn)
	metrics.WebSocketActiveConnections.Dec()
	slog.Info("Subscriber unregistered", "subscriber_id", sub.id, "remaining", len(h.subscribers))
}

func (h *Hub) handleBroadcast(data []byte) {
	metrics.WebSocketMessagesPublished.Inc()

	var slow []*websocket.Conn
	for conn, sub := range h.subscribers {
		select {
		case sub.writer.sendChannel <- data:
			metrics.WebSocketMessagesDelivered.Inc()
		default:
			// Full buffer means the subscriber has stalled; drop it rather
			// than let it hold up anyone else.
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow subscriber", "subscriber_id", h.subscribers[conn].id)
		metrics.WebSocketSlowClientDisconnects.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleStop() {
	for conn, sub := range h.subscribers {
		sub.writer.stop()
		delete(h.subscribers, conn)
		metrics.WebSocketActiveConnections.Dec()
	}
}

// --- Public API ---

// Register adds a connection to the hub and queues its handshake envelope.
// Registering an already-registered connection is a no-op.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister removes a connection. Unknown connections are ignored.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// Broadcast delivers data to every currently registered subscriber on a
// best-effort basis and returns once every delivery attempt has been issued.
// It never waits on a slow subscriber and never reports per-subscriber
// failures to the caller.
func (h *Hub) Broadcast(data []byte) {
	doneCh := make(chan struct{})
	h.cmdCh <- cmdBroadcast{data: data, doneCh: doneCh}
	<-doneCh
}

// ClientCount returns the number of currently registered subscribers.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}
	return <-replyCh
}

// Stop closes every subscriber connection and shuts the hub down.
func (h *Hub) Stop() {
	doneCh := make(chan struct{})
	h.cmdCh <- cmdStop{doneCh: doneCh}
	<-doneCh
}
