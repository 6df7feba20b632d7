package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vk/fabrica/factory"
)

// Registry holds the named factories, global sequences and recognized
// callback names for one factory universe. Independent registries share
// nothing, which is what keeps parallel test packages isolated.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]*factory.Definition
	sequences map[string]*factory.Sequence

	callbackNames callbackNameSet
}

// New creates an empty registry. The callback-name set starts with the four
// built-in lifecycle names; RegisterCallback adds more.
func New() *Registry {
	r := &Registry{
		factories: make(map[string]*factory.Definition),
		sequences: make(map[string]*factory.Sequence),
	}
	r.callbackNames.names = map[string]struct{}{
		factory.AfterBuild:   {},
		factory.BeforeCreate: {},
		factory.AfterCreate:  {},
		factory.AfterStub:    {},
	}
	return r
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*factory.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.factories[name]
	if !ok {
		return nil, UnknownFactoryError{Name: name}
	}
	return def, nil
}

// HasFactory reports whether a factory is registered under name.
func (r *Registry) HasFactory(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// FactoryNames returns the registered factory names, sorted. Aliases count
// as names of their own.
func (r *Registry) FactoryNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bind registers a definition under a name, panicking on duplicates.
func (r *Registry) bind(name string, def *factory.Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("factory with name '%s' already registered", name))
	}
	r.factories[name] = def
}

// DefineSequence registers a global sequence counting from 1. Implicit
// attribute references resolve against these sequences by name.
func (r *Registry) DefineSequence(name string, format factory.FormatFunc) *factory.Sequence {
	return r.DefineSequenceFrom(name, 1, format)
}

// DefineSequenceFrom is DefineSequence with a custom counter start.
func (r *Registry) DefineSequenceFrom(name string, start int64, format factory.FormatFunc) *factory.Sequence {
	seq := factory.NewSequenceFrom(name, start, format)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sequences[name]; exists {
		panic(fmt.Sprintf("sequence with name '%s' already registered", name))
	}
	r.sequences[name] = seq
	return seq
}

// Sequence looks up a global sequence by name.
func (r *Registry) Sequence(name string) (*factory.Sequence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seq, ok := r.sequences[name]
	return seq, ok
}

// SequenceNext draws the next value from the named global sequence. ok is
// false when no such sequence exists.
func (r *Registry) SequenceNext(name string) (any, bool) {
	seq, ok := r.Sequence(name)
	if !ok {
		return nil, false
	}
	return seq.Next(), true
}

// RegisterCallback adds a recognized callback name. Registering an already
// known name is a no-op.
func (r *Registry) RegisterCallback(name string) {
	r.callbackNames.Register(name)
}

// KnownCallback reports whether a callback name is recognized.
func (r *Registry) KnownCallback(name string) bool {
	return r.callbackNames.Known(name)
}

// CallbackNames returns the callback-name service injected into proxies.
func (r *Registry) CallbackNames() factory.CallbackNames {
	return &r.callbackNames
}

// callbackNameSet is the process-wide callback-name state: empty of custom
// names at start, populated only by registration calls, never implicitly
// reset.
type callbackNameSet struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// Known implements factory.CallbackNames.
func (s *callbackNameSet) Known(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[name]
	return ok
}

// Register implements factory.CallbackNames.
func (s *callbackNameSet) Register(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[name] = struct{}{}
}
