// Package server exposes the relay's HTTP surface: webhook ingestion,
// health, metrics, and the WebSocket subscription endpoint.
package server

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cquayle/demohead/internal/config"
	apperrors "github.com/cquayle/demohead/internal/errors"
	"github.com/cquayle/demohead/internal/metrics"
	"github.com/cquayle/demohead/internal/relay"
)

type Server struct {
	echo     *echo.Echo
	config   *config.Config
	hub      *relay.Hub
	clock    clockwork.Clock
	limits   *ConnectionLimits
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config, hub *relay.Hub, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	// Metrics sit outside error handling so they observe the final status.
	e.Use(metrics.HTTPMiddleware())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:   e,
		config: cfg,
		hub:    hub,
		clock:  clock,
		limits: NewConnectionLimits(
			cfg.MaxWebSocketConnections,
			cfg.MaxConnectionsPerIP,
			cfg.ConnectionRatePerSecond,
			cfg.ConnectionRateBurst,
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     NewCheckOrigin(cfg.AppURL, cfg.IsDevelopment()),
		},
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

// Shutdown stops accepting new connections and waits for in-flight requests.
// Open subscriber connections are owned by the hub and closed by hub.Stop.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
