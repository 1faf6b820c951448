// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvEngine         = "BREAKOUT_ENGINE"
	EnvTreeMaxDepth   = "BREAKOUT_TREE_MAX_DEPTH"
	EnvSplitWeight    = "BREAKOUT_SPLIT_WEIGHT"
	EnvTimeEpsilon    = "BREAKOUT_TIME_EPSILON"
	EnvMaxSubsteps    = "BREAKOUT_MAX_SUBSTEPS"
	EnvPlatformFreeze = "BREAKOUT_PLATFORM_FREEZE"
	EnvLevelTemplate  = "BREAKOUT_LEVEL_TEMPLATE"
	EnvArenaCount     = "BREAKOUT_ARENA_COUNT"
	EnvMaxSteps       = "BREAKOUT_MAX_STEPS"
	EnvAutoReset      = "BREAKOUT_AUTO_RESET"
	EnvMaxFailures    = "BREAKOUT_MAX_CONSECUTIVE_FAILURES"
	EnvBreakerTimeout = "BREAKOUT_BREAKER_TIMEOUT"
)

// ValidationError reports a configuration field outside its allowed range
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfigFromEnv returns the default configuration with environment
// overrides applied and validated.
func LoadConfigFromEnv() (*Config, error) {
	config := DefaultConfig()
	if err := ApplyEnvironmentOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnvironmentOverrides applies BREAKOUT_* variables on top of config
// and validates the result. Unparseable values leave the field unchanged.
func ApplyEnvironmentOverrides(config *Config) error {
	if name := os.Getenv(EnvLevelTemplate); name != "" {
		tmpl := GetLevelTemplate(name)
		if tmpl == nil {
			return &ValidationError{Field: "Level", Value: name, Message: "unknown level template"}
		}
		config.Level = tmpl.Level
	}

	c := &config.Collision
	c.Engine = getEnvOrDefault(EnvEngine, c.Engine)
	c.TreeMaxDepth = getEnvAsIntOrDefault(EnvTreeMaxDepth, c.TreeMaxDepth)
	c.SplitWeight = getEnvAsFloatOrDefault(EnvSplitWeight, c.SplitWeight)
	c.TimeEpsilon = getEnvAsFloatOrDefault(EnvTimeEpsilon, c.TimeEpsilon)

	p := &config.Physics
	p.MaxSubsteps = getEnvAsIntOrDefault(EnvMaxSubsteps, p.MaxSubsteps)
	p.PlatformFreeze = getEnvAsFloatOrDefault(EnvPlatformFreeze, p.PlatformFreeze)

	a := &config.Arena
	a.Count = getEnvAsIntOrDefault(EnvArenaCount, a.Count)
	a.MaxSteps = getEnvAsIntOrDefault(EnvMaxSteps, a.MaxSteps)
	a.AutoReset = getEnvAsBoolOrDefault(EnvAutoReset, a.AutoReset)
	a.MaxConsecutiveFailures = uint32(getEnvAsIntOrDefault(EnvMaxFailures, int(a.MaxConsecutiveFailures)))
	a.BreakerTimeout = getEnvAsDurationOrDefault(EnvBreakerTimeout, a.BreakerTimeout)

	return config.Validate()
}

// Validate checks every section and returns the first violation as a
// *ValidationError.
func (c *Config) Validate() error {
	checks := []func() error{
		c.Collision.validate,
		c.Physics.validate,
		c.Level.validate,
		c.Arena.validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c CollisionConfig) validate() error {
	if c.Engine != EngineNaive && c.Engine != EngineTree {
		return &ValidationError{Field: "Engine", Value: c.Engine, Message: "must be naive or tree"}
	}
	if c.TreeMaxDepth < 1 || c.TreeMaxDepth > 32 {
		return &ValidationError{Field: "TreeMaxDepth", Value: c.TreeMaxDepth, Message: "must be between 1 and 32"}
	}
	if c.TreeMinItems < 2 {
		return &ValidationError{Field: "TreeMinItems", Value: c.TreeMinItems, Message: "must be at least 2"}
	}
	if c.SplitWeight < 0 || c.SplitWeight > 1 {
		return &ValidationError{Field: "SplitWeight", Value: c.SplitWeight, Message: "must be between 0 and 1"}
	}
	if c.TimeEpsilon <= 0 || c.TimeEpsilon >= 1 {
		return &ValidationError{Field: "TimeEpsilon", Value: c.TimeEpsilon, Message: "must be in (0, 1)"}
	}
	if c.MaxSearchDepth < 1 {
		return &ValidationError{Field: "MaxSearchDepth", Value: c.MaxSearchDepth, Message: "must be positive"}
	}
	return nil
}

func (p PhysicsConfig) validate() error {
	if p.TickDelta <= 0 {
		return &ValidationError{Field: "TickDelta", Value: p.TickDelta, Message: "must be positive"}
	}
	if p.MaxSubsteps < 1 {
		return &ValidationError{Field: "MaxSubsteps", Value: p.MaxSubsteps, Message: "must be positive"}
	}
	if p.MinVertical < 0 || p.MinVertical >= 1 {
		return &ValidationError{Field: "MinVertical", Value: p.MinVertical, Message: "must be in [0, 1)"}
	}
	if p.SpeedEpsilon < 0 {
		return &ValidationError{Field: "SpeedEpsilon", Value: p.SpeedEpsilon, Message: "must not be negative"}
	}
	if p.PlatformFreeze < 0 {
		return &ValidationError{Field: "PlatformFreeze", Value: p.PlatformFreeze, Message: "must not be negative"}
	}
	return nil
}

func (l LevelConfig) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return &ValidationError{Field: "Level.Size", Value: [2]float64{l.Width, l.Height}, Message: "must be positive"}
	}
	if l.Rows < 0 || l.Columns < 0 {
		return &ValidationError{Field: "Level.Grid", Value: [2]int{l.Rows, l.Columns}, Message: "must not be negative"}
	}
	for _, h := range l.RowHealth {
		if h < 1 {
			return &ValidationError{Field: "RowHealth", Value: l.RowHealth, Message: "health must be at least 1"}
		}
	}
	gridWidth := float64(l.Columns)*(l.BlockWidth+l.BlockGap) - l.BlockGap
	if l.Columns > 0 && gridWidth > l.Width {
		return &ValidationError{Field: "Columns", Value: l.Columns, Message: "block grid wider than the arena"}
	}
	if l.PlatformWidth <= 0 || l.PlatformHeight <= 0 {
		return &ValidationError{Field: "Platform", Value: [2]float64{l.PlatformWidth, l.PlatformHeight}, Message: "must be positive"}
	}
	if l.BallRadius <= 0 {
		return &ValidationError{Field: "BallRadius", Value: l.BallRadius, Message: "must be positive"}
	}
	for _, b := range l.ExtraBlocks {
		if b.Health < 1 || b.Width <= 0 || b.Height <= 0 {
			return &ValidationError{Field: "ExtraBlocks", Value: b, Message: "needs positive size and health"}
		}
	}
	for _, b := range l.ExtraBalls {
		if b.Radius <= 0 {
			return &ValidationError{Field: "ExtraBalls", Value: b, Message: "radius must be positive"}
		}
	}
	return nil
}

func (a ArenaConfig) validate() error {
	if a.Count < 1 || a.Count > 1024 {
		return &ValidationError{Field: "Count", Value: a.Count, Message: "must be between 1 and 1024"}
	}
	if a.MaxSteps < 1 {
		return &ValidationError{Field: "MaxSteps", Value: a.MaxSteps, Message: "must be positive"}
	}
	if a.MaxConsecutiveFailures < 1 {
		return &ValidationError{Field: "MaxConsecutiveFailures", Value: a.MaxConsecutiveFailures, Message: "must be positive"}
	}
	if a.BreakerTimeout < time.Second || a.BreakerTimeout > 10*time.Minute {
		return &ValidationError{Field: "BreakerTimeout", Value: a.BreakerTimeout, Message: "must be between 1s and 10m"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns environment variable as int or default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns environment variable as bool or default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns environment variable as float64 or default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault returns environment variable as duration or default
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
