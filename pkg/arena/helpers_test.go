package arena

import (
	"io"
	"time"

	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/logging"
)

func quietLogger() EnvOption {
	return WithLogger(logging.NewLoggerTo(io.Discard))
}

// openLevel returns a config with no block grid so tests place items
// explicitly.
func openLevel() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Level.Rows = 0
	cfg.Level.RowHealth = nil
	cfg.Arena.BreakerTimeout = 20 * time.Millisecond
	return cfg
}
