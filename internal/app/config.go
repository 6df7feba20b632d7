package app

import (
	"errors"
	"fmt"

	"github.com/vk/fabrica/strategy"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FactoriesPath string // .hcl factory definition files
	FactoryName   string // factory to preview; empty lists the registered names
	Count         int
	Strategy      string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FactoriesPath == "" {
		return nil, errors.New("FactoriesPath is a required configuration field and cannot be empty")
	}
	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	switch cfg.Strategy {
	case "":
		cfg.Strategy = strategy.StrategyAttributesFor
	case strategy.StrategyAttributesFor, strategy.StrategyBuild, strategy.StrategyCreate, strategy.StrategyStub:
		// valid
	default:
		return nil, fmt.Errorf("invalid strategy %q", cfg.Strategy)
	}

	return &cfg, nil
}
