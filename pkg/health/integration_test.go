package health

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opd-ai/go-breakout/pkg/arena"
	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/engine"
	"github.com/opd-ai/go-breakout/pkg/logging"
)

// TestPoolHealthIntegration wires the arena checks to a live pool and
// trips one breaker.
func TestPoolHealthIntegration(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.Count = 2
	cfg.Arena.MaxConsecutiveFailures = 2
	cfg.Arena.BreakerTimeout = time.Minute

	newAgent := func(id int) arena.Agent {
		if id == 0 {
			return arena.AgentFunc(func([]float64) engine.Action { panic("broken agent") })
		}
		return arena.Idle
	}
	pool, err := arena.NewPool(cfg, newAgent, arena.WithLogger(logging.NewLoggerTo(io.Discard)))
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	hc := NewHealthChecker()
	hc.AddCheck(NewBreakerHealthCheck(pool.Len, pool.OpenBreakers, 0))
	hc.AddCheck(NewProgressHealthCheck(pool.LastStep, time.Minute))
	srv := httptest.NewServer(hc.Handler())
	defer srv.Close()

	ready := func() (int, HealthStatus) {
		t.Helper()
		resp, err := http.Get(srv.URL + "/ready")
		if err != nil {
			t.Fatalf("GET /ready: %v", err)
		}
		defer resp.Body.Close()
		var status HealthStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.StatusCode, status
	}

	if code, _ := ready(); code != http.StatusOK {
		t.Fatalf("fresh pool: code = %d, want 200", code)
	}

	pool.Run(context.Background(), 2)
	if pool.OpenBreakers() != 1 {
		t.Fatalf("open breakers = %d, want 1", pool.OpenBreakers())
	}

	code, status := ready()
	if code != http.StatusServiceUnavailable {
		t.Errorf("tripped pool: code = %d, want 503", code)
	}
	if status.Checks["arena_breakers"].Status != "unhealthy" {
		t.Errorf("breaker check = %+v", status.Checks["arena_breakers"])
	}
	if status.Checks["arena_progress"].Status != "healthy" {
		t.Errorf("progress check = %+v", status.Checks["arena_progress"])
	}
}
