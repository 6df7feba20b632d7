// Package fabrica is a declarative test-object factory for Go.
//
// Factories are declared once, usually in a test helper, and built many
// times with per-call overrides and traits:
//
//	fabrica.DefineSequence("email", func(n int64) any {
//		return fmt.Sprintf("person%d@example.com", n)
//	})
//
//	fabrica.Define(ctx, "user", func(f *factory.Proxy) {
//		f.Set("name", "Billy")
//		f.Apply(factory.Call{Name: "email"}) // draws from the sequence
//		f.Trait("admin", func(f *factory.Proxy) {
//			f.Set("admin", true)
//		})
//	})
//
//	user, err := fabrica.Build(ctx, "user", fabrica.Attrs{"name": "Ann"}, "admin")
//
// The package-level functions operate on a process-wide default registry and
// builder. Tests that need isolation can construct their own registry.Registry
// and strategy.Builder instead; everything here is a thin veneer over those.
package fabrica

import (
	"context"
	"sync"

	"github.com/vk/fabrica/factory"
	"github.com/vk/fabrica/registry"
	"github.com/vk/fabrica/strategy"
)

// Attrs is shorthand for a per-build attribute override map.
type Attrs = map[string]any

var (
	mu             sync.RWMutex
	defaultReg     = registry.New()
	defaultBuilder = strategy.New(defaultReg)
)

func current() (*registry.Registry, *strategy.Builder) {
	mu.RLock()
	defer mu.RUnlock()
	return defaultReg, defaultBuilder
}

// Registry returns the default registry, for callers that need direct
// access (the HCL loader, for one).
func Registry() *registry.Registry {
	reg, _ := current()
	return reg
}

// Reset replaces the default registry with an empty one. Factories,
// sequences and custom callback names are all dropped. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	defaultReg = registry.New()
	defaultBuilder = strategy.New(defaultReg)
}

// Define declares a factory on the default registry.
func Define(ctx context.Context, name string, fn factory.DeclarationFunc) error {
	reg, _ := current()
	return reg.Define(ctx, name, factory.FactoryOptions{}, fn)
}

// DefineWith is Define with explicit factory options (parent, traits,
// aliases).
func DefineWith(ctx context.Context, name string, opts factory.FactoryOptions, fn factory.DeclarationFunc) error {
	reg, _ := current()
	return reg.Define(ctx, name, opts, fn)
}

// DefineSequence registers a global sequence on the default registry.
func DefineSequence(name string, format factory.FormatFunc) *factory.Sequence {
	reg, _ := current()
	return reg.DefineSequence(name, format)
}

// RegisterCallback adds a recognized callback name on the default registry.
func RegisterCallback(name string) {
	reg, _ := current()
	reg.RegisterCallback(name)
}

// AttributesFor resolves a factory into a plain attribute map.
func AttributesFor(ctx context.Context, name string, overrides Attrs, traits ...string) (map[string]any, error) {
	_, b := current()
	return b.AttributesFor(ctx, name, overrides, traits...)
}

// Build constructs an in-memory instance.
func Build(ctx context.Context, name string, overrides Attrs, traits ...string) (*strategy.Instance, error) {
	_, b := current()
	return b.Build(ctx, name, overrides, traits...)
}

// Create constructs and persists an instance.
func Create(ctx context.Context, name string, overrides Attrs, traits ...string) (*strategy.Instance, error) {
	_, b := current()
	return b.Create(ctx, name, overrides, traits...)
}

// Stub constructs an instance that pretends to be persisted.
func Stub(ctx context.Context, name string, overrides Attrs, traits ...string) (*strategy.Instance, error) {
	_, b := current()
	return b.Stub(ctx, name, overrides, traits...)
}

// Decode copies an instance's attributes into a user struct. See
// strategy.Decode.
func Decode(inst *strategy.Instance, target any) error {
	return strategy.Decode(inst, target)
}
