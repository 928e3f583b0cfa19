package server

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cquayle/demohead/internal/config"
	"github.com/cquayle/demohead/internal/relay"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "development",
		Port:                    "0",
		MaxWebSocketConnections: 100,
		MaxConnectionsPerIP:     100,
		ConnectionRatePerSecond: 1000,
		ConnectionRateBurst:     1000,
	}
}

// newTestServer builds a Server around a fresh hub and a fake clock pinned
// to testTime.
func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	hub := relay.NewHub(clockwork.NewRealClock())
	t.Cleanup(func() { hub.Stop() })

	return NewServer(cfg, hub, clockwork.NewFakeClockAt(testTime))
}
