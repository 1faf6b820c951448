// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Engine kinds accepted by CollisionConfig.Engine
const (
	EngineNaive = "naive"
	EngineTree  = "tree"
)

// Config contains configuration for a breakout arena run
type Config struct {
	Collision CollisionConfig `json:"collision"`
	Physics   PhysicsConfig   `json:"physics"`
	Level     LevelConfig     `json:"level"`
	Arena     ArenaConfig     `json:"arena"`
}

// CollisionConfig selects the detection engine and bounds its search
type CollisionConfig struct {
	Engine         string  `json:"engine"`
	TreeMaxDepth   int     `json:"treeMaxDepth"`
	TreeMinItems   int     `json:"treeMinItems"`
	SplitWeight    float64 `json:"splitWeight"`
	TimeEpsilon    float64 `json:"timeEpsilon"`
	MaxSearchDepth int     `json:"maxSearchDepth"`
}

// PhysicsConfig contains collision response and stepping configuration
type PhysicsConfig struct {
	TickDelta      float64 `json:"tickDelta"`
	MaxSubsteps    int     `json:"maxSubsteps"`
	MinVertical    float64 `json:"minVertical"`
	SpeedEpsilon   float64 `json:"speedEpsilon"`
	PlatformFreeze float64 `json:"platformFreeze"`
}

// LevelConfig describes the arena layout built at reset
type LevelConfig struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	WallThickness float64 `json:"wallThickness"`

	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	BlockWidth  float64 `json:"blockWidth"`
	BlockHeight float64 `json:"blockHeight"`
	BlockGap    float64 `json:"blockGap"`
	GridTop     float64 `json:"gridTop"`
	// RowHealth gives the health of each row from the top; rows past the
	// end of the slice use its last value.
	RowHealth []int `json:"rowHealth"`

	PlatformWidth  float64 `json:"platformWidth"`
	PlatformHeight float64 `json:"platformHeight"`
	PlatformSpeed  float64 `json:"platformSpeed"`
	// PlatformMargin is the gap between the platform and the open bottom.
	PlatformMargin float64 `json:"platformMargin"`

	BallRadius float64 `json:"ballRadius"`
	BallSpeed  float64 `json:"ballSpeed"`

	ExtraBlocks []BlockSpec `json:"extraBlocks,omitempty"`
	ExtraBalls  []BallSpec  `json:"extraBalls,omitempty"`
}

// BlockSpec places a single block
type BlockSpec struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Health int     `json:"health"`
}

// BallSpec places an already thrown ball
type BallSpec struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Speed  float64 `json:"speed"`
	DirX   float64 `json:"dirX"`
	DirY   float64 `json:"dirY"`
}

// ArenaConfig contains batch runner and reward configuration
type ArenaConfig struct {
	Count           int     `json:"count"`
	MaxSteps        int     `json:"maxSteps"`
	BlockReward     float64 `json:"blockReward"`
	BallLostPenalty float64 `json:"ballLostPenalty"`
	// AutoReset rebuilds an arena as soon as it is done instead of idling.
	AutoReset bool `json:"autoReset"`

	MaxConsecutiveFailures uint32        `json:"maxConsecutiveFailures"`
	BreakerTimeout         time.Duration `json:"breakerTimeout"`
}

// LoadConfig loads a configuration from a file. Fields absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Collision: CollisionConfig{
			Engine:         EngineTree,
			TreeMaxDepth:   8,
			TreeMinItems:   4,
			SplitWeight:    0.5,
			TimeEpsilon:    1e-4,
			MaxSearchDepth: 64,
		},
		Physics: PhysicsConfig{
			TickDelta:      1,
			MaxSubsteps:    32,
			MinVertical:    0.1,
			SpeedEpsilon:   1e-6,
			PlatformFreeze: 2,
		},
		Level: DefaultLevel(),
		Arena: ArenaConfig{
			Count:                  4,
			MaxSteps:               5000,
			BlockReward:            1,
			BallLostPenalty:        10,
			AutoReset:              true,
			MaxConsecutiveFailures: 3,
			BreakerTimeout:         30 * time.Second,
		},
	}
}

// DefaultLevel returns the classic layout
func DefaultLevel() LevelConfig {
	return LevelConfig{
		Width:          400,
		Height:         300,
		WallThickness:  10,
		Rows:           5,
		Columns:        8,
		BlockWidth:     40,
		BlockHeight:    12,
		BlockGap:       4,
		GridTop:        40,
		RowHealth:      []int{3, 2, 2, 1, 1},
		PlatformWidth:  60,
		PlatformHeight: 10,
		PlatformSpeed:  4,
		PlatformMargin: 20,
		BallRadius:     5,
		BallSpeed:      3,
	}
}
