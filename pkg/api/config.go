package api

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the tunables of a controller and of board randomisation.
type Config struct {
	// UpdateSpeed is the pacing delay applied to every instrumentation
	// event. Zero disables pacing.
	UpdateSpeed time.Duration `yaml:"update_speed" validate:"gte=0"`

	// ReplayDelay is the delay between path positions during replay.
	// Zero means UpdateSpeed.
	ReplayDelay time.Duration `yaml:"replay_delay" validate:"gte=0"`

	BoardRows    int `yaml:"board_rows" validate:"gte=1,lte=200"`
	BoardColumns int `yaml:"board_columns" validate:"gte=1,lte=200"`

	// PercentWalls and PercentWeights control how much of a randomised
	// board is covered by walls and weighted cells.
	PercentWalls   int `yaml:"percent_walls" validate:"gte=0,lte=40"`
	PercentWeights int `yaml:"percent_weights" validate:"gte=0,lte=40"`

	// MaxWeight bounds random cell weights, which fall in [2, MaxWeight].
	MaxWeight int `yaml:"max_weight" validate:"gte=2,lte=100"`
}

// DefaultConfig returns the settings a fresh install starts with.
func DefaultConfig() Config {
	return Config{
		UpdateSpeed:    25 * time.Millisecond,
		BoardRows:      20,
		BoardColumns:   30,
		PercentWalls:   30,
		PercentWeights: 20,
		MaxWeight:      5,
	}
}

// EffectiveReplayDelay resolves the zero value of ReplayDelay.
func (c Config) EffectiveReplayDelay() time.Duration {
	if c.ReplayDelay > 0 {
		return c.ReplayDelay
	}
	return c.UpdateSpeed
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig, so omitted keys keep
// their defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseBoard decodes a YAML board and checks its dimensions.
func ParseBoard(data []byte) (Board, error) {
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("parse board: %w", err)
	}
	if err := validate.Struct(b); err != nil {
		return Board{}, fmt.Errorf("invalid board: %w", err)
	}
	return b, nil
}

// LoadBoard reads and parses a YAML board file.
func LoadBoard(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("read board: %w", err)
	}
	return ParseBoard(data)
}
