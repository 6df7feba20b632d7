package strategy

import (
	"context"
	"errors"

	"github.com/vk/fabrica/decl"
	"github.com/vk/fabrica/factory"
)

// errSkipAssociation signals that an association-backed attribute must be
// omitted from the result under the attributes_for strategy. It never
// escapes the build pipeline.
var errSkipAssociation = errors.New("fabrica: association skipped under attributes_for")

// resolver is the per-instance build context. It implements decl.Context.
//
// Overrides win unconditionally: an overridden attribute's declaration is
// never resolved, so dynamic functions do not run for it. Every resolved
// value is memoized, which both guarantees at-most-once evaluation of
// dynamic declarations and gives dependent attributes a consistent view.
type resolver struct {
	ctx       context.Context
	builder   *Builder
	def       *factory.Definition
	byName    map[string]decl.Declaration
	overrides map[string]any
	memo      map[string]any
	resolving map[string]bool
	strategy  string
	inst      *Instance
}

func newResolver(ctx context.Context, b *Builder, def *factory.Definition, decls []decl.Declaration, overrides map[string]any, strategy string, inst *Instance) *resolver {
	byName := make(map[string]decl.Declaration, len(decls))
	for _, d := range decls {
		byName[d.Name()] = d
	}
	return &resolver{
		ctx:       ctx,
		builder:   b,
		def:       def,
		byName:    byName,
		overrides: overrides,
		memo:      make(map[string]any),
		resolving: make(map[string]bool),
		strategy:  strategy,
		inst:      inst,
	}
}

// FactoryName implements decl.Context.
func (r *resolver) FactoryName() string { return r.def.Name() }

// Attr implements decl.Context.
func (r *resolver) Attr(name string) (any, error) {
	if v, ok := r.memo[name]; ok {
		return v, nil
	}
	if v, ok := r.overrides[name]; ok {
		r.memo[name] = v
		return v, nil
	}
	d, ok := r.byName[name]
	if !ok {
		// Callbacks may have assigned attributes the definition never
		// declared; honor those before giving up.
		if v, ok := r.inst.Get(name); ok {
			return v, nil
		}
		return nil, UnknownAttributeError{Factory: r.def.Name(), Attribute: name}
	}
	if r.resolving[name] {
		return nil, CyclicAttributeError{Factory: r.def.Name(), Attribute: name}
	}
	r.resolving[name] = true
	v, err := d.Resolve(r)
	delete(r.resolving, name)
	if err != nil {
		return nil, err
	}
	r.memo[name] = v
	return v, nil
}

// NextSequenceValue implements decl.Context.
func (r *resolver) NextSequenceValue(name string) (any, bool) {
	return r.builder.reg.SequenceNext(name)
}

// HasFactory implements decl.Context.
func (r *resolver) HasFactory(name string) bool {
	return r.builder.reg.HasFactory(name)
}

// BuildAssociation implements decl.Context. Associated instances are built
// with the same strategy as the parent build, except under AttributesFor,
// which produces a plain attribute hash and never touches other factories:
// any declaration resolving through here — explicit or implicit — is dropped
// from the result entirely.
func (r *resolver) BuildAssociation(factoryName string, overrides map[string]any) (any, error) {
	if r.strategy == StrategyAttributesFor {
		return nil, errSkipAssociation
	}
	inst, err := r.builder.run(r.ctx, factoryName, r.strategy, overrides, nil)
	if err != nil {
		return nil, err
	}
	return inst.Result(), nil
}
