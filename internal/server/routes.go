package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/api/health", s.handleHealth)

	// Publisher side
	s.echo.POST("/api/webhook", s.handleWebhook)

	// Subscriber side
	s.echo.GET("/ws", s.handleWebSocket)
}
