package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cquayle/demohead/internal/relay"
)

type HealthResponse struct {
	Status           string `json:"status"`
	ConnectedClients int    `json:"connectedClients"`
	Timestamp        string `json:"timestamp"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:           "ok",
		ConnectedClients: s.hub.ClientCount(),
		Timestamp:        relay.FormatTimestamp(s.clock.Now()),
	})
}
