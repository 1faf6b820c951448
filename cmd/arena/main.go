// cmd/arena/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/opd-ai/go-breakout/pkg/arena"
	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/health"
	"github.com/opd-ai/go-breakout/pkg/logging"
	"github.com/opd-ai/go-breakout/pkg/metrics"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	levelName := flag.String("level", "", "Level template (overrides the configured level)")
	steps := flag.Int("steps", 0, "Pool steps to run (0 uses arena.maxSteps)")
	agentName := flag.String("agent", "tracker", "Agent driving every arena (tracker, random, idle)")
	seed := flag.Uint64("seed", 1, "Seed for the random agent")
	recordPath := flag.String("record", "", "Write a msgpack replay of all arenas to this file")
	healthAddr := flag.String("health", "", "Serve /health and /ready on this address, e.g. :8080")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(*configPath, *levelName, logger)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	newAgent, err := agentFactory(*agentName, *seed)
	if err != nil {
		logger.Error(ctx, "Invalid agent", err)
		os.Exit(1)
	}

	timer := metrics.NewRecorder()
	pool, err := arena.NewPool(cfg, newAgent,
		arena.WithLogger(logger),
		arena.WithTimer(timer),
		arena.WithBaseContext(ctx),
	)
	if err != nil {
		logger.Error(ctx, "Failed to create arena pool", err)
		os.Exit(1)
	}

	var recorder *replaySink
	if *recordPath != "" {
		recorder, err = createReplay(*recordPath)
		if err != nil {
			logger.Error(ctx, "Failed to create replay file", err, "path", *recordPath)
			os.Exit(1)
		}
		for _, env := range pool.Envs() {
			recorder.Attach(env.ID, env.Bus(), env.Tick)
		}
	}

	var healthServer *http.Server
	if *healthAddr != "" {
		healthServer = startHealthServer(ctx, *healthAddr, pool, cfg, logger)
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n := *steps
	if n <= 0 {
		n = cfg.Arena.MaxSteps
	}
	logger.Info(ctx, "Starting arena pool",
		"arenas", cfg.Arena.Count,
		"engine", cfg.Collision.Engine,
		"agent", *agentName,
		"steps", n,
	)
	start := time.Now()
	sum := pool.Run(runCtx, n)

	logger.Info(ctx, "Arena pool finished",
		"elapsed", time.Since(start).String(),
		"episodes", sum.Episodes,
		"cleared", sum.Cleared,
		"reward", sum.Reward,
	)
	for _, s := range timer.Snapshot() {
		logger.Info(ctx, "Collision timing",
			"op", s.Op,
			"count", s.Count,
			"mean", s.Mean().String(),
			"max", s.Max.String(),
		)
	}

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			logger.Error(ctx, "Replay recording failed", err, "path", *recordPath)
		} else {
			logger.Info(ctx, "Replay written",
				"path", *recordPath,
				"frames", recorder.Frames(),
			)
		}
	}

	if healthServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Health check server shutdown failed", err)
		}
	}
}

// loadConfig reads path when it exists, then applies the level template
// and environment overrides.
func loadConfig(path, levelName string, logger *logging.Logger) (*config.Config, error) {
	ctx := context.Background()

	var cfg *config.Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if levelName != "" {
		tmpl := config.GetLevelTemplate(levelName)
		if tmpl == nil {
			return nil, fmt.Errorf("unknown level template %q", levelName)
		}
		cfg.Level = tmpl.Level
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func agentFactory(name string, seed uint64) (func(id int) arena.Agent, error) {
	switch name {
	case "tracker":
		return func(int) arena.Agent { return arena.NewTracker() }, nil
	case "random":
		return func(id int) arena.Agent { return arena.NewRandom(seed + uint64(id)) }, nil
	case "idle":
		return func(int) arena.Agent { return arena.Idle }, nil
	}
	return nil, fmt.Errorf("unknown agent %q", name)
}

func startHealthServer(ctx context.Context, addr string, pool *arena.Pool, cfg *config.Config, logger *logging.Logger) *http.Server {
	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewBreakerHealthCheck(pool.Len, pool.OpenBreakers, 0.5))
	checker.AddCheck(health.NewProgressHealthCheck(pool.LastStep, 2*cfg.Arena.BreakerTimeout))
	checker.AddCheck(health.NewMemoryHealthCheck(500, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	srv := &http.Server{
		Addr:         addr,
		Handler:      checker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting health check server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()
	return srv
}
