package registry

import (
	"context"
	"fmt"

	"github.com/vk/fabrica/factory"
	"github.com/vk/fabrica/internal/ctxlog"
)

// Define evaluates a factory body and, if it completes without error, binds
// the resulting definition under name and each alias. A body that fails
// leaves nothing registered: the partial definition is discarded rather than
// tolerated.
//
// Child factories buffered during body evaluation are registered afterwards,
// recursively, each defaulting its parent to the enclosing factory.
func (r *Registry) Define(ctx context.Context, name string, opts factory.FactoryOptions, fn factory.DeclarationFunc) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Defining factory.", "factory", name, "parent", opts.Parent)

	def := factory.NewDefinition(name)
	if opts.Parent != "" {
		parent, err := r.Lookup(opts.Parent)
		if err != nil {
			return fmt.Errorf("fabrica: defining factory %q: parent: %w", name, err)
		}
		def.InheritFrom(parent)
	}

	p := factory.NewProxy(def, false, r.CallbackNames(), logger)
	if fn != nil {
		fn(p)
	}
	if err := p.Err(); err != nil {
		logger.Warn("Discarding partially built factory definition.", "factory", name, "error", err)
		return fmt.Errorf("fabrica: defining factory %q: %w", name, err)
	}

	if err := r.applyTraits(def, p, opts.Traits); err != nil {
		return fmt.Errorf("fabrica: defining factory %q: %w", name, err)
	}

	r.bind(name, def)
	for _, alias := range opts.Aliases {
		r.bind(alias, def)
	}

	for _, child := range p.Children() {
		childOpts := child.Options
		if childOpts.Parent == "" {
			childOpts.Parent = name
		}
		if err := r.Define(ctx, child.Name, childOpts, child.Fn); err != nil {
			return err
		}
	}

	logger.Debug("Factory defined.", "factory", name, "aliases", opts.Aliases)
	return nil
}

// DefinitionWithTraits returns the definition for name with the given traits
// applied. Without traits the registered definition is returned as-is; with
// traits a derived definition is compiled fresh, so trait declarations never
// leak into the registered one and two builds requesting the same trait get
// independent declarations.
func (r *Registry) DefinitionWithTraits(ctx context.Context, name string, traits []string) (*factory.Definition, error) {
	base, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(traits) == 0 {
		return base, nil
	}

	derived := factory.NewDefinition(name)
	derived.InheritFrom(base)
	p := factory.NewProxy(derived, false, r.CallbackNames(), ctxlog.FromContext(ctx))
	if err := r.applyTraits(derived, p, traits); err != nil {
		return nil, fmt.Errorf("fabrica: building factory %q: %w", name, err)
	}
	return derived, nil
}

// applyTraits replays each named trait's body against the proxy, appending
// the trait declarations onto the definition.
func (r *Registry) applyTraits(def *factory.Definition, p *factory.Proxy, traits []string) error {
	for _, traitName := range traits {
		t, ok := def.Trait(traitName)
		if !ok {
			return UnknownTraitError{Factory: def.Name(), Trait: traitName}
		}
		if fn := t.Fn(); fn != nil {
			fn(p)
		}
		if err := p.Err(); err != nil {
			return err
		}
	}
	return nil
}
