package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	apperrors "github.com/cquayle/demohead/internal/errors"
	"github.com/cquayle/demohead/internal/metrics"
)

// handleWebSocket runs one subscriber lifecycle: limit acquisition, upgrade,
// registration (which queues the handshake), then a blocking read pump until
// close or transport error, then deregistration.
func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	ok, reason := s.limits.Acquire(ip)
	if !ok {
		metrics.WebSocketConnectionsRejected.WithLabelValues(string(reason)).Inc()
		if reason == LimitReasonRate {
			return apperrors.RateLimitedError("too many connection attempts").WithContext("ip", ip)
		}
		return apperrors.UnavailableError("connection limit reached").WithContext("reason", string(reason))
	}
	defer s.limits.Release(ip)

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its error response.
		slog.Warn("WebSocket upgrade failed", "error", err, "remote_addr", ip)
		return nil
	}

	if err := s.hub.Register(conn); err != nil {
		_ = conn.Close()
		return nil
	}

	// The relay expects no subscriber messages; reading is how close and
	// transport errors are observed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Unregister(conn)
	return nil
}
