package factory

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fabrica/decl"
)

// stubNames is an in-memory callback-name service.
type stubNames struct {
	known      map[string]bool
	registered []string
}

func newStubNames(known ...string) *stubNames {
	s := &stubNames{known: make(map[string]bool)}
	for _, n := range known {
		s.known[n] = true
	}
	return s
}

func (s *stubNames) Known(name string) bool { return s.known[name] }
func (s *stubNames) Register(name string) {
	s.known[name] = true
	s.registered = append(s.registered, name)
}

// noopContext satisfies decl.Context for resolving proxy-declared attributes.
type noopContext struct{}

func (noopContext) FactoryName() string                       { return "test" }
func (noopContext) Attr(string) (any, error)                  { return nil, nil }
func (noopContext) NextSequenceValue(string) (any, bool)      { return nil, false }
func (noopContext) HasFactory(string) bool                    { return false }
func (noopContext) BuildAssociation(string, map[string]any) (any, error) { return nil, nil }

func newTestProxy() (*Proxy, *Definition, *stubNames) {
	def := NewDefinition("user")
	names := newStubNames(AfterBuild, BeforeCreate, AfterCreate, AfterStub)
	return NewProxy(def, false, names, nil), def, names
}

func TestAddAttribute_BothValueAndFuncFails(t *testing.T) {
	p, def, _ := newTestProxy()

	err := p.AddAttribute("name", "Billy", func(decl.Context) (any, error) { return "x", nil })

	var defErr decl.AttributeDefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "name", defErr.Attribute)
	// No partial declaration may be appended.
	assert.Empty(t, def.Declarations())
	// The error is sticky: the proxy reports it afterwards.
	assert.ErrorAs(t, p.Err(), &defErr)
}

func TestAddAttribute_NeitherValueNorFunc(t *testing.T) {
	p, def, _ := newTestProxy()

	require.NoError(t, p.AddAttribute("name", nil, nil))

	decls := def.Declarations()
	require.Len(t, decls, 1)
	static, ok := decls[0].(*decl.Static)
	require.True(t, ok, "a no-default attribute is Static, not Implicit")
	assert.Nil(t, static.Value())
}

func TestApply_Classification(t *testing.T) {
	someFn := func(decl.Context) (any, error) { return "v", nil }

	testCases := []struct {
		name     string
		call     Call
		wantType any
	}{
		{
			name:     "no args and no func is implicit",
			call:     Call{Name: "email"},
			wantType: &decl.Implicit{},
		},
		{
			name:     "mapping with factory key is association shorthand",
			call:     Call{Name: "author", Args: []any{map[string]any{"factory": "user"}}},
			wantType: &decl.Association{},
		},
		{
			name:     "mapping without factory key is a static attribute",
			call:     Call{Name: "settings", Args: []any{map[string]any{"theme": "dark"}}},
			wantType: &decl.Static{},
		},
		{
			name:     "literal value is a static attribute",
			call:     Call{Name: "name", Args: []any{"Billy"}},
			wantType: &decl.Static{},
		},
		{
			name:     "func only is a dynamic attribute",
			call:     Call{Name: "slug", Fn: someFn},
			wantType: &decl.Dynamic{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, def, _ := newTestProxy()

			require.NoError(t, p.Apply(tc.call))

			decls := def.Declarations()
			require.Len(t, decls, 1)
			assert.IsType(t, tc.wantType, decls[0])
			assert.Equal(t, tc.call.Name, decls[0].Name())
		})
	}
}

func TestApply_AssociationShorthandMatchesExplicitCall(t *testing.T) {
	options := map[string]any{"factory": "user", "admin": true}

	shorthand, shorthandDef, _ := newTestProxy()
	require.NoError(t, shorthand.Apply(Call{Name: "author", Args: []any{options}}))

	explicit, explicitDef, _ := newTestProxy()
	explicit.Association("author", options)
	require.NoError(t, explicit.Err())

	want := explicitDef.Declarations()[0].(*decl.Association)
	got := shorthandDef.Declarations()[0].(*decl.Association)
	assert.Equal(t, want.Factory(), got.Factory())
	assert.Equal(t, want.Overrides(), got.Overrides())
}

func TestApply_LegacyCallbackName(t *testing.T) {
	def := NewDefinition("user")
	names := newStubNames(AfterBuild, BeforeCreate, AfterCreate, AfterStub)
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := NewProxy(def, false, names, logger)

	ran := false
	err := p.Apply(Call{Name: "before_create", Fn: func(decl.Context) (any, error) {
		ran = true
		return nil, nil
	}})
	require.NoError(t, err)

	// No attribute declaration is made; the call attaches a callback under
	// the legacy name instead.
	assert.Empty(t, def.Declarations())
	cbs := def.Callbacks("before_create")
	require.Len(t, cbs, 1)
	require.NoError(t, cbs[0].Run(nil, noopContext{}))
	assert.True(t, ran)
	// The name was already known; the legacy path does not re-register it.
	assert.Empty(t, names.registered)

	// The legacy form emits a deprecation warning naming the callback.
	logged := logBuf.String()
	assert.Contains(t, logged, "level=WARN")
	assert.Contains(t, logged, "deprecated")
	assert.Contains(t, logged, "callback=before_create")
}

func TestApply_BareKnownCallbackNameIsStillImplicit(t *testing.T) {
	// Rule 1 outranks the legacy-callback rule: with no function supplied,
	// even a recognized callback name is an implicit attribute reference.
	p, def, _ := newTestProxy()

	require.NoError(t, p.Apply(Call{Name: "before_create"}))

	decls := def.Declarations()
	require.Len(t, decls, 1)
	assert.IsType(t, &decl.Implicit{}, decls[0])
}

func TestApply_TooManyArguments(t *testing.T) {
	p, def, _ := newTestProxy()

	err := p.Apply(Call{Name: "name", Args: []any{"a", "b"}})
	assert.Error(t, err)
	assert.Empty(t, def.Declarations())
}

func TestTransient_ForcesIgnoredFlag(t *testing.T) {
	p, def, _ := newTestProxy()

	p.Set("name", "Billy")
	p.Transient(func(f *Proxy) {
		f.Set("upcased", true)
		f.Lazy("derived", func(decl.Context) (any, error) { return nil, nil })
	})
	require.NoError(t, p.Err())

	decls := def.Declarations()
	require.Len(t, decls, 3)
	assert.False(t, decls[0].Ignored())
	assert.True(t, decls[1].Ignored(), "declarations inside Transient are ignored")
	assert.True(t, decls[2].Ignored())
}

func TestTransient_PropagatesChildFactories(t *testing.T) {
	p, _, _ := newTestProxy()

	p.Transient(func(f *Proxy) {
		f.Factory("nested", FactoryOptions{}, func(*Proxy) {})
	})

	require.Len(t, p.Children(), 1)
	assert.Equal(t, "nested", p.Children()[0].Name)
}

func TestSequence_SugarDeclaresDynamicAttribute(t *testing.T) {
	p, def, _ := newTestProxy()

	p.Sequence("email", func(n int64) any { return n })

	decls := def.Declarations()
	require.Len(t, decls, 1)
	dyn, ok := decls[0].(*decl.Dynamic)
	require.True(t, ok)

	// Each resolution draws the next value from the factory-local sequence.
	v1, err := dyn.Resolve(noopContext{})
	require.NoError(t, err)
	v2, err := dyn.Resolve(noopContext{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)
}

func TestFactory_BuffersChildrenOnProxyNotDefinition(t *testing.T) {
	p, def, _ := newTestProxy()

	p.Factory("admin_user", FactoryOptions{Traits: []string{"admin"}}, func(*Proxy) {})

	assert.Empty(t, def.Declarations())
	children := p.Children()
	require.Len(t, children, 1)
	assert.Equal(t, "admin_user", children[0].Name)
	assert.Equal(t, []string{"admin"}, children[0].Options.Traits)
}

func TestCallback_RegistersNameAndAttaches(t *testing.T) {
	p, def, names := newTestProxy()

	p.Callback("after_publish", func(any, decl.Context) error { return nil })
	require.NoError(t, p.Err())

	assert.Equal(t, []string{"after_publish"}, names.registered)
	assert.Len(t, def.Callbacks("after_publish"), 1)
}

func TestBeforeAfter_Sugar(t *testing.T) {
	p, def, _ := newTestProxy()

	p.Before("create", func(any, decl.Context) error { return nil })
	p.After("build", func(any, decl.Context) error { return nil })
	require.NoError(t, p.Err())

	assert.Len(t, def.Callbacks("before_create"), 1)
	assert.Len(t, def.Callbacks("after_build"), 1)
}

func TestProxy_StickyErrorAbortsRemainder(t *testing.T) {
	p, def, _ := newTestProxy()

	_ = p.AddAttribute("name", "x", func(decl.Context) (any, error) { return nil, nil })
	require.Error(t, p.Err())

	// Subsequent operations are no-ops.
	p.Set("other", 1)
	p.Trait("admin", func(*Proxy) {})
	assert.Empty(t, def.Declarations())
	_, ok := def.Trait("admin")
	assert.False(t, ok)
}
