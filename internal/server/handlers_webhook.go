package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/cquayle/demohead/internal/errors"
	"github.com/cquayle/demohead/internal/relay"
)

// WebhookResponse acknowledges that a publish was handed to fan-out. It says
// nothing about how many subscribers, if any, received the envelope.
type WebhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperrors.ValidationError("failed to read request body")
	}
	if !json.Valid(body) {
		return apperrors.ValidationError("request body must be valid JSON")
	}

	// One timestamp, assigned here, shared by the envelope every subscriber
	// sees and by the acknowledgment below.
	env := relay.NewContentEnvelope(body, s.clock.Now())
	data, err := json.Marshal(env)
	if err != nil {
		return apperrors.InternalError("failed to encode envelope", err)
	}

	s.hub.Broadcast(data)
	slog.InfoContext(c.Request().Context(), "Webhook content broadcast", "payload_bytes", len(body))

	return c.JSON(http.StatusOK, WebhookResponse{
		Success:   true,
		Message:   "Content received and broadcasted",
		Timestamp: env.Timestamp,
	})
}
