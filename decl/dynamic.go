package decl

import "fmt"

// Dynamic is a declaration whose value is computed lazily by a stored
// function. The function is evaluated against the build context, so it can
// read other attributes of the same instance and build associations.
type Dynamic struct {
	name    string
	ignored bool
	fn      DynamicFunc
}

// NewDynamic creates a lazily-computed declaration.
func NewDynamic(name string, fn DynamicFunc, ignored bool) *Dynamic {
	return &Dynamic{name: name, ignored: ignored, fn: fn}
}

// Name implements Declaration.
func (d *Dynamic) Name() string { return d.name }

// Ignored implements Declaration.
func (d *Dynamic) Ignored() bool { return d.ignored }

// Resolve implements Declaration. The stored function runs at most once per
// instance build; the caller (the resolver) is responsible for memoizing the
// result and for skipping evaluation entirely when the attribute was
// overridden.
func (d *Dynamic) Resolve(ctx Context) (any, error) {
	if d.fn == nil {
		return nil, fmt.Errorf("fabrica: dynamic attribute %q has no function", d.name)
	}
	return d.fn(ctx)
}
