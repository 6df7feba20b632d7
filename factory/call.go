package factory

import (
	"fmt"

	"github.com/vk/fabrica/decl"
)

// Call is one raw declarative call: a name, positional arguments and an
// optional function. It is how front-ends that cannot invoke the proxy's
// typed operations directly (the HCL loader, for one) express a declaration
// whose intent still needs to be classified.
type Call struct {
	Name string
	Args []any
	Fn   decl.DynamicFunc
}

// Apply classifies a raw call by its shape and dispatches it. The rules are
// checked in strict priority order:
//
//  1. No arguments and no function: an Implicit declaration under the called
//     name, resolved to a sequence or association at build time.
//  2. A single mapping argument containing a "factory" key: association
//     shorthand, equivalent to Association(name, mapping).
//  3. The name is a recognized callback name and a function was supplied: a
//     legacy bare callback. A deprecation warning is logged and the callback
//     is attached directly under the legacy name.
//  4. Anything else: AddAttribute(name, first argument, function).
//
// The order matters: attribute declarations, association shorthand and bare
// sequence/association references are syntactically indistinguishable until
// argument count and shape have been inspected, and the caller never states
// which case applies.
func (p *Proxy) Apply(c Call) error {
	if p.err != nil {
		return p.err
	}

	if len(c.Args) == 0 && c.Fn == nil {
		p.declare(decl.NewImplicit(c.Name, p.ignored))
		return nil
	}

	if len(c.Args) == 1 && c.Fn == nil {
		if m, ok := c.Args[0].(map[string]any); ok {
			if _, has := m[decl.FactoryKey]; has {
				p.Association(c.Name, m)
				return p.err
			}
		}
	}

	if c.Fn != nil && len(c.Args) == 0 && p.callbackNames != nil && p.callbackNames.Known(c.Name) {
		p.logger.Warn("Declaring a callback by its bare name is deprecated; use Before or After instead.",
			"factory", p.def.Name(), "callback", c.Name)
		fn := c.Fn
		p.def.AddCallback(NewCallback(c.Name, func(_ any, ctx decl.Context) error {
			_, err := fn(ctx)
			return err
		}))
		return nil
	}

	if len(c.Args) > 1 {
		return p.fail(fmt.Errorf("fabrica: attribute %q declared with %d positional arguments, want at most one", c.Name, len(c.Args)))
	}
	var value any
	if len(c.Args) == 1 {
		value = c.Args[0]
	}
	return p.AddAttribute(c.Name, value, c.Fn)
}
