package factory

import (
	"fmt"

	"github.com/vk/fabrica/decl"
)

// Lifecycle callback names the registry recognizes out of the box. Additional
// names can be added through CallbackNames.Register.
const (
	AfterBuild   = "after_build"
	BeforeCreate = "before_create"
	AfterCreate  = "after_create"
	AfterStub    = "after_stub"
)

// CallbackFunc is a lifecycle hook body. obj is the object under
// construction: the constructor product when the definition has one,
// otherwise the strategy's instance. ctx is the same build context attribute
// declarations resolve against.
type CallbackFunc func(obj any, ctx decl.Context) error

// CallbackNames is the registry of recognized callback names, injected into
// each Proxy. It doubles as the lookup the dispatcher uses to classify bare
// legacy calls such as "before_create".
type CallbackNames interface {
	Known(name string) bool
	Register(name string)
}

// Callback pairs a lifecycle name with a hook body. The external build
// strategy invokes the definition's callbacks at the matching lifecycle
// point, in declaration order.
type Callback struct {
	name string
	fn   CallbackFunc
}

// NewCallback creates a callback.
func NewCallback(name string, fn CallbackFunc) *Callback {
	return &Callback{name: name, fn: fn}
}

// Name returns the lifecycle name the callback is attached to.
func (c *Callback) Name() string { return c.name }

// Run invokes the hook body.
func (c *Callback) Run(obj any, ctx decl.Context) error {
	if c.fn == nil {
		return fmt.Errorf("fabrica: callback %q has no function", c.name)
	}
	return c.fn(obj, ctx)
}
