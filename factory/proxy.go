package factory

import (
	"fmt"
	"log/slog"

	"github.com/vk/fabrica/decl"
)

// FactoryOptions are the options accepted when declaring a factory, either
// at the registry top level or as a nested child factory.
type FactoryOptions struct {
	// Parent names a factory whose compiled state this one starts from.
	// Nested child factories default to their enclosing factory.
	Parent string

	// Traits are applied to the definition after its body has run, in order.
	Traits []string

	// Aliases are additional names the factory is registered under.
	Aliases []string
}

// ChildFactory is one nested factory declaration buffered on the proxy.
// Child factories are a registry concern, not an attribute concern, so they
// never touch the Definition; the registry collects them after the enclosing
// body finishes and registers each as an independent factory.
type ChildFactory struct {
	Name    string
	Options FactoryOptions
	Fn      DeclarationFunc
}

// Proxy is the DSL front-end a factory body runs against. Every operation
// mutates the target Definition (or the proxy's own child-factory buffer);
// the proxy holds no other state besides its transient flag and a sticky
// error.
//
// Errors are sticky: after the first failed operation all subsequent
// operations become no-ops, so a definition-time error effectively aborts the
// remainder of the body. The registry inspects Err afterwards and discards
// the partial definition.
type Proxy struct {
	def           *Definition
	ignored       bool
	children      []ChildFactory
	callbackNames CallbackNames
	logger        *slog.Logger
	err           error
}

// NewProxy creates a proxy targeting the given definition. ignored forces
// every declaration made through the proxy to be transient; it is set for
// proxies created inside Transient blocks. names is the injected
// callback-name service.
func NewProxy(def *Definition, ignored bool, names CallbackNames, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{def: def, ignored: ignored, callbackNames: names, logger: logger}
}

// Err returns the first error any operation produced, or nil.
func (p *Proxy) Err() error { return p.err }

// Children returns the buffered nested factory declarations in declaration
// order.
func (p *Proxy) Children() []ChildFactory {
	out := make([]ChildFactory, len(p.children))
	copy(out, p.children)
	return out
}

func (p *Proxy) fail(err error) error {
	if p.err == nil {
		p.err = err
	}
	return err
}

func (p *Proxy) declare(d decl.Declaration) {
	p.def.DeclareAttribute(d)
}

// AddAttribute declares an attribute. Exactly one of value and fn may be
// supplied; supplying both fails with AttributeDefinitionError and leaves the
// declaration list unchanged. Supplying neither declares a static attribute
// with a nil default, which is still a concrete declaration, distinct from a
// bare Implicit reference.
func (p *Proxy) AddAttribute(name string, value any, fn decl.DynamicFunc) error {
	if p.err != nil {
		return p.err
	}
	if value != nil && fn != nil {
		return p.fail(decl.AttributeDefinitionError{Attribute: name})
	}
	if fn != nil {
		p.declare(decl.NewDynamic(name, fn, p.ignored))
		return nil
	}
	p.declare(decl.NewStatic(name, value, p.ignored))
	return nil
}

// Set declares a static attribute.
func (p *Proxy) Set(name string, value any) {
	_ = p.AddAttribute(name, value, nil)
}

// Lazy declares a dynamic attribute computed against the build context.
func (p *Proxy) Lazy(name string, fn decl.DynamicFunc) {
	_ = p.AddAttribute(name, nil, fn)
}

// Transient evaluates fn against a child proxy that shares this proxy's
// definition but has the transient flag forced on: every declaration made
// inside is computed at build time yet never assigned to the final instance,
// regardless of the outer proxy's own flag.
func (p *Proxy) Transient(fn DeclarationFunc) {
	if p.err != nil || fn == nil {
		return
	}
	child := &Proxy{
		def:           p.def,
		ignored:       true,
		callbackNames: p.callbackNames,
		logger:        p.logger,
	}
	fn(child)
	p.children = append(p.children, child.children...)
	if child.err != nil {
		p.fail(child.err)
	}
}

// Sequence declares a factory-local sequence starting at 1 and registers a
// dynamic attribute under the same name that draws the next value on every
// resolution. The sequence is not globally registered.
func (p *Proxy) Sequence(name string, format FormatFunc) {
	p.SequenceFrom(name, 1, format)
}

// SequenceFrom is Sequence with a custom counter start.
func (p *Proxy) SequenceFrom(name string, start int64, format FormatFunc) {
	seq := NewSequenceFrom(name, start, format)
	_ = p.AddAttribute(name, nil, func(decl.Context) (any, error) {
		return seq.Next(), nil
	})
}

// Association declares an association attribute. The options mapping may
// carry a "factory" key naming the factory to build; it defaults to the
// attribute name. All other options become attribute overrides for the
// associated build.
func (p *Proxy) Association(name string, options map[string]any) {
	if p.err != nil {
		return
	}
	a, err := decl.NewAssociation(name, options, p.ignored)
	if err != nil {
		p.fail(err)
		return
	}
	p.declare(a)
}

// ToCreate forwards a custom persistence function to the definition.
func (p *Proxy) ToCreate(fn CreateFunc) {
	if p.err != nil {
		return
	}
	p.def.ToCreate(fn)
}

// SkipCreate suppresses the persistence step of the create strategy.
func (p *Proxy) SkipCreate() {
	if p.err != nil {
		return
	}
	p.def.SkipCreate()
}

// InitializeWith installs a custom constructor on the definition.
func (p *Proxy) InitializeWith(fn ConstructorFunc) {
	if p.err != nil {
		return
	}
	p.def.DefineConstructor(fn)
}

// Factory buffers a nested factory declaration. The definition is not
// touched; the registry registers the child after the enclosing body
// finishes, defaulting its parent to the enclosing factory.
func (p *Proxy) Factory(name string, options FactoryOptions, fn DeclarationFunc) {
	if p.err != nil {
		return
	}
	p.logger.Debug("Buffering child factory declaration.", "parent", p.def.Name(), "child", name)
	p.children = append(p.children, ChildFactory{Name: name, Options: options, Fn: fn})
}

// Trait registers a named trait on the definition.
func (p *Proxy) Trait(name string, fn DeclarationFunc) {
	if p.err != nil {
		return
	}
	p.def.DefineTrait(NewTrait(name, fn))
}

// Before registers a callback under "before_<event>".
func (p *Proxy) Before(event string, fn CallbackFunc) {
	p.Callback("before_"+event, fn)
}

// After registers a callback under "after_<event>".
func (p *Proxy) After(event string, fn CallbackFunc) {
	p.Callback("after_"+event, fn)
}

// Callback registers the callback name with the injected callback-name
// service and attaches the callback to the definition.
func (p *Proxy) Callback(name string, fn CallbackFunc) {
	if p.err != nil {
		return
	}
	if fn == nil {
		p.fail(fmt.Errorf("fabrica: callback %q needs a function", name))
		return
	}
	if p.callbackNames != nil {
		p.callbackNames.Register(name)
	}
	p.def.AddCallback(NewCallback(name, fn))
}
