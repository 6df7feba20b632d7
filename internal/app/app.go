// Package app wires the fabrica preview tool together: logger, HCL loader,
// registry and builder.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/fabrica/hclfactory"
	"github.com/vk/fabrica/internal/ctxlog"
	"github.com/vk/fabrica/registry"
	"github.com/vk/fabrica/strategy"
)

// App encapsulates the tool's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	builder  *strategy.Builder
	config   *Config
}

// NewApp constructs the application: it configures an isolated logger, loads
// every factory definition reachable from the configured path into a fresh
// registry, and prepares a builder over it. A failure to load definitions is
// a fatal startup error and panics; the caller recovers to present it.
func NewApp(outW io.Writer, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	loader := hclfactory.NewLoader()
	if err := loader.Load(ctx, reg, cfg.FactoriesPath); err != nil {
		panic(fmt.Errorf("failed to load factory definitions: %w", err))
	}
	logger.Debug("Factory definitions loaded into registry.", "factories", reg.FactoryNames())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		builder:  strategy.New(reg),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
