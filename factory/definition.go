package factory

import (
	"sync"

	"github.com/vk/fabrica/decl"
)

// DeclarationFunc is a factory body: a function evaluated against a Proxy
// that declares attributes, traits, callbacks and child factories.
type DeclarationFunc func(f *Proxy)

// ConstructorFunc overrides how the final object is produced from resolved
// attributes. It runs after all attributes resolved and may read them through
// the context.
type ConstructorFunc func(ctx decl.Context) (any, error)

// CreateFunc overrides the persistence step of the create strategy. It
// receives the built object (the constructor product when one is defined,
// otherwise the instance itself).
type CreateFunc func(obj any) error

// Definition accumulates everything a factory body declares. It is mutated
// only through a Proxy while the body runs and must not be modified
// afterwards; Compile caches on first use under that assumption.
type Definition struct {
	name         string
	declarations []decl.Declaration
	callbacks    []*Callback
	traits       map[string]*Trait
	constructor  ConstructorFunc
	createFn     CreateFunc
	skipCreate   bool

	compileOnce sync.Once
	compiled    []decl.Declaration
}

// NewDefinition creates an empty definition for the named factory.
func NewDefinition(name string) *Definition {
	return &Definition{
		name:   name,
		traits: make(map[string]*Trait),
	}
}

// Name returns the factory name the definition belongs to.
func (d *Definition) Name() string { return d.name }

// DeclareAttribute appends an attribute declaration. Declaration order is
// preserved; later declarations of the same name override earlier ones when
// the definition is compiled.
func (d *Definition) DeclareAttribute(dec decl.Declaration) {
	d.declarations = append(d.declarations, dec)
}

// Declarations returns the raw, uncompiled declaration list in declaration
// order, including superseded duplicates.
func (d *Definition) Declarations() []decl.Declaration {
	out := make([]decl.Declaration, len(d.declarations))
	copy(out, d.declarations)
	return out
}

// AddCallback attaches a lifecycle callback. Callbacks of the same name run
// in declaration order.
func (d *Definition) AddCallback(cb *Callback) {
	d.callbacks = append(d.callbacks, cb)
}

// Callbacks returns the callbacks registered under the given lifecycle name,
// in declaration order.
func (d *Definition) Callbacks(name string) []*Callback {
	var out []*Callback
	for _, cb := range d.callbacks {
		if cb.Name() == name {
			out = append(out, cb)
		}
	}
	return out
}

// DefineTrait registers a named trait. A later trait of the same name
// replaces the earlier one.
func (d *Definition) DefineTrait(t *Trait) {
	d.traits[t.Name()] = t
}

// Trait looks up a trait by name.
func (d *Definition) Trait(name string) (*Trait, bool) {
	t, ok := d.traits[name]
	return t, ok
}

// DefineConstructor installs a custom constructor. At most one constructor is
// kept; a later call replaces the earlier one.
func (d *Definition) DefineConstructor(fn ConstructorFunc) {
	d.constructor = fn
}

// Constructor returns the custom constructor, or nil when the default
// map-backed instance should be produced.
func (d *Definition) Constructor() ConstructorFunc { return d.constructor }

// ToCreate installs a custom persistence function for the create strategy.
func (d *Definition) ToCreate(fn CreateFunc) {
	d.createFn = fn
	d.skipCreate = false
}

// SkipCreate suppresses the persistence step of the create strategy.
func (d *Definition) SkipCreate() {
	d.skipCreate = true
	d.createFn = nil
}

// CreateOverride returns the custom persistence function, if any, and whether
// persistence is suppressed entirely.
func (d *Definition) CreateOverride() (fn CreateFunc, skip bool) {
	return d.createFn, d.skipCreate
}

// InheritFrom copies a parent definition's state into this one. The parent's
// declarations and callbacks come first, so the child's own declarations
// override the parent's at compile time. Traits are copied unless the child
// later defines one of the same name; constructor and create overrides are
// starting points the child body may replace.
func (d *Definition) InheritFrom(parent *Definition) {
	d.declarations = append(parent.Declarations(), d.declarations...)
	d.callbacks = append(append([]*Callback(nil), parent.callbacks...), d.callbacks...)
	for name, t := range parent.traits {
		if _, exists := d.traits[name]; !exists {
			d.traits[name] = t
		}
	}
	if d.constructor == nil {
		d.constructor = parent.constructor
	}
	if d.createFn == nil && !d.skipCreate {
		d.createFn = parent.createFn
		d.skipCreate = parent.skipCreate
	}
}

// Compile reduces the ordered declaration list to one declaration per
// attribute name. The last declaration of a name wins, but it keeps the
// position of the first occurrence, so overriding an attribute does not
// reorder resolution relative to its neighbours.
func (d *Definition) Compile() []decl.Declaration {
	d.compileOnce.Do(func() {
		index := make(map[string]int, len(d.declarations))
		var out []decl.Declaration
		for _, dec := range d.declarations {
			if i, seen := index[dec.Name()]; seen {
				out[i] = dec
				continue
			}
			index[dec.Name()] = len(out)
			out = append(out, dec)
		}
		d.compiled = out
	})
	return d.compiled
}
