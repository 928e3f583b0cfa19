// Package client implements the subscriber side of the relay: one connection
// at a time, fixed-delay reconnect on loss, and envelopes surfaced in
// arrival order.
package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/cquayle/demohead/internal/relay"
)

// Status describes the client's own connection state. It says nothing about
// the publisher or other subscribers.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

const defaultReconnectDelay = 3 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithReconnectDelay overrides the fixed delay between reconnect attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// WithClock injects the clock used for the reconnect delay.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithDialer overrides the WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithEnvelopeHandler registers a callback invoked for every content
// envelope, after it has been recorded.
func WithEnvelopeHandler(fn func(relay.Envelope)) Option {
	return func(c *Client) { c.onEnvelope = fn }
}

// WithStatusHandler registers a callback invoked on every status transition.
func WithStatusHandler(fn func(Status)) Option {
	return func(c *Client) { c.onStatus = fn }
}

// Client maintains one connection to the relay's subscription endpoint and
// reconnects forever with a fixed delay. Retry never backs off and never
// caps out; the caller's context is the only way to stop it.
type Client struct {
	url    string
	dialer *websocket.Dialer
	clock  clockwork.Clock
	delay  time.Duration

	onEnvelope func(relay.Envelope)
	onStatus   func(Status)

	mu        sync.Mutex
	status    Status
	envelopes []relay.Envelope
}

// New creates a client for the given ws:// or wss:// URL.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		dialer: websocket.DefaultDialer,
		clock:  clockwork.NewRealClock(),
		delay:  defaultReconnectDelay,
		status: StatusDisconnected,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects and keeps the client connected until ctx is cancelled. It
// always returns the context's error.
func (c *Client) Run(ctx context.Context) error {
	for {
		c.setStatus(StatusConnecting)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			slog.Warn("Connection attempt failed", "url", c.url, "error", err)
			c.setStatus(StatusDisconnected)
			if err := c.waitForRetry(ctx); err != nil {
				return err
			}
			continue
		}

		c.setStatus(StatusConnected)
		c.readLoop(ctx, conn)
		_ = conn.Close()
		c.setStatus(StatusDisconnected)

		if err := c.waitForRetry(ctx); err != nil {
			return err
		}
	}
}

// waitForRetry sleeps for the fixed reconnect delay, or returns early with
// the context error on cancellation.
func (c *Client) waitForRetry(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.delay):
		return nil
	}
}

// readLoop consumes envelopes until the connection drops or ctx is
// cancelled, whichever comes first.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	var env relay.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Malformed payloads are dropped; connection state is untouched.
		slog.Debug("Dropping malformed envelope", "error", err)
		return
	}

	switch env.Type {
	case relay.TypeConnected:
		// Informational acknowledgment only.
		slog.Debug("Connection confirmed", "message", env.Message)
	case relay.TypeContent:
		c.mu.Lock()
		c.envelopes = append(c.envelopes, env)
		c.mu.Unlock()
		if c.onEnvelope != nil {
			c.onEnvelope(env)
		}
	default:
		slog.Debug("Ignoring envelope of unknown type", "type", env.Type)
	}
}

func (c *Client) setStatus(s Status) {
	c.mu.Lock()
	changed := c.status != s
	c.status = s
	c.mu.Unlock()

	if changed && c.onStatus != nil {
		c.onStatus(s)
	}
}

// Status returns the client's current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Envelopes returns a copy of all content envelopes observed so far, in
// arrival order. Envelopes received across reconnects accumulate; the client
// does not deduplicate.
func (c *Client) Envelopes() []relay.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]relay.Envelope, len(c.envelopes))
	copy(out, c.envelopes)
	return out
}
