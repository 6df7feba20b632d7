package strategy

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/vk/fabrica/factory"
	"github.com/vk/fabrica/internal/ctxlog"
	"github.com/vk/fabrica/registry"
)

// Builder evaluates factory definitions from a registry into instances. It
// is stateless apart from the registry reference and safe for concurrent use.
type Builder struct {
	reg *registry.Registry
}

// New creates a builder over the given registry.
func New(reg *registry.Registry) *Builder {
	return &Builder{reg: reg}
}

// AttributesFor resolves the factory's attributes into a plain map. No
// callbacks run, nothing is persisted and association declarations are
// skipped entirely.
func (b *Builder) AttributesFor(ctx context.Context, name string, overrides map[string]any, traits ...string) (map[string]any, error) {
	inst, err := b.run(ctx, name, StrategyAttributesFor, overrides, traits)
	if err != nil {
		return nil, err
	}
	return inst.Attributes(), nil
}

// Build constructs an in-memory instance and runs after_build callbacks.
func (b *Builder) Build(ctx context.Context, name string, overrides map[string]any, traits ...string) (*Instance, error) {
	return b.run(ctx, name, StrategyBuild, overrides, traits)
}

// Create constructs an instance, runs after_build and before_create
// callbacks, performs the persistence step (the definition's to_create
// override, or marking the instance persisted by default, or nothing when
// create is skipped) and finally runs after_create callbacks.
func (b *Builder) Create(ctx context.Context, name string, overrides map[string]any, traits ...string) (*Instance, error) {
	return b.run(ctx, name, StrategyCreate, overrides, traits)
}

// Stub constructs an instance that pretends to be persisted: it receives a
// generated id attribute unless one was declared or overridden, skips the
// persistence step and runs only after_stub callbacks.
func (b *Builder) Stub(ctx context.Context, name string, overrides map[string]any, traits ...string) (*Instance, error) {
	return b.run(ctx, name, StrategyStub, overrides, traits)
}

// run is the shared build pipeline: compile, resolve in declaration order,
// apply surplus overrides, construct, then run the strategy's lifecycle.
func (b *Builder) run(ctx context.Context, name, strategyName string, overrides map[string]any, traits []string) (*Instance, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building instance.", "factory", name, "strategy", strategyName, "traits", traits)

	def, err := b.reg.DefinitionWithTraits(ctx, name, traits)
	if err != nil {
		return nil, err
	}
	decls := def.Compile()

	inst := newInstance(name, strategyName)
	res := newResolver(ctx, b, def, decls, overrides, strategyName, inst)

	for _, d := range decls {
		v, err := res.Attr(d.Name())
		if errors.Is(err, errSkipAssociation) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fabrica: building %q attribute %q: %w", name, d.Name(), err)
		}
		if d.Ignored() {
			inst.transients[d.Name()] = v
		} else {
			inst.Set(d.Name(), v)
		}
	}

	// Overrides that match no declaration still become attributes, in a
	// deterministic order.
	var extra []string
	for k := range overrides {
		if _, declared := res.byName[k]; !declared {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		inst.Set(k, overrides[k])
	}

	if ctor := def.Constructor(); ctor != nil {
		obj, err := ctor(res)
		if err != nil {
			return nil, fmt.Errorf("fabrica: constructing %q: %w", name, err)
		}
		inst.object = obj
	}

	if err := b.runLifecycle(def, inst, res); err != nil {
		return nil, err
	}

	logger.Debug("Instance built.", "factory", name, "strategy", strategyName, "attributes", len(inst.attrs))
	return inst, nil
}

func (b *Builder) runLifecycle(def *factory.Definition, inst *Instance, res *resolver) error {
	switch inst.strategy {
	case StrategyAttributesFor:
		return nil

	case StrategyBuild:
		return b.runCallbacks(def, factory.AfterBuild, inst, res)

	case StrategyCreate:
		if err := b.runCallbacks(def, factory.AfterBuild, inst, res); err != nil {
			return err
		}
		if err := b.runCallbacks(def, factory.BeforeCreate, inst, res); err != nil {
			return err
		}
		if err := b.persist(def, inst); err != nil {
			return err
		}
		return b.runCallbacks(def, factory.AfterCreate, inst, res)

	case StrategyStub:
		if _, ok := inst.Get("id"); !ok {
			inst.Set("id", uuid.NewString())
		}
		return b.runCallbacks(def, factory.AfterStub, inst, res)
	}
	return fmt.Errorf("fabrica: unknown build strategy %q", inst.strategy)
}

func (b *Builder) persist(def *factory.Definition, inst *Instance) error {
	createFn, skip := def.CreateOverride()
	if skip {
		return nil
	}
	if createFn != nil {
		if err := createFn(inst.Result()); err != nil {
			return fmt.Errorf("fabrica: creating %q: %w", inst.factoryName, err)
		}
	}
	inst.persisted = true
	return nil
}

func (b *Builder) runCallbacks(def *factory.Definition, name string, inst *Instance, res *resolver) error {
	for _, cb := range def.Callbacks(name) {
		if err := cb.Run(inst.Result(), res); err != nil {
			return fmt.Errorf("fabrica: %s callback for %q: %w", name, inst.factoryName, err)
		}
	}
	return nil
}
