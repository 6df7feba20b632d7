package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/fabrica/internal/ctxlog"
	"github.com/vk/fabrica/strategy"
)

// Run executes the preview: it builds the requested number of instances with
// the configured strategy and writes them to the output as a JSON array.
// With no factory name configured it lists the registered factories instead.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.FactoryName == "" {
		for _, name := range a.registry.FactoryNames() {
			fmt.Fprintln(a.outW, name)
		}
		return nil
	}

	a.logger.Info("Previewing factory.",
		"factory", a.config.FactoryName,
		"strategy", a.config.Strategy,
		"count", a.config.Count,
	)

	results := make([]map[string]any, 0, a.config.Count)
	for i := 0; i < a.config.Count; i++ {
		attrs, err := a.buildOne(ctx)
		if err != nil {
			return err
		}
		results = append(results, attrs)
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func (a *App) buildOne(ctx context.Context) (map[string]any, error) {
	name := a.config.FactoryName
	switch a.config.Strategy {
	case strategy.StrategyAttributesFor:
		return a.builder.AttributesFor(ctx, name, nil)
	case strategy.StrategyBuild:
		inst, err := a.builder.Build(ctx, name, nil)
		return flatten(inst, err)
	case strategy.StrategyCreate:
		inst, err := a.builder.Create(ctx, name, nil)
		return flatten(inst, err)
	case strategy.StrategyStub:
		inst, err := a.builder.Stub(ctx, name, nil)
		return flatten(inst, err)
	}
	return nil, fmt.Errorf("invalid strategy %q", a.config.Strategy)
}

// flatten renders an instance as plain attributes so the preview output is
// JSON-friendly regardless of strategy. Associated instances are flattened
// recursively.
func flatten(inst *strategy.Instance, err error) (map[string]any, error) {
	if err != nil {
		return nil, err
	}
	attrs := inst.Attributes()
	for k, v := range attrs {
		if nested, ok := v.(*strategy.Instance); ok {
			flat, err := flatten(nested, nil)
			if err != nil {
				return nil, err
			}
			attrs[k] = flat
		}
	}
	return attrs, nil
}
