package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fabrica/decl"
	"github.com/vk/fabrica/factory"
)

func TestDefine_BindsNameAndAliases(t *testing.T) {
	r := New()
	ctx := context.Background()

	err := r.Define(ctx, "user", factory.FactoryOptions{Aliases: []string{"author", "commenter"}}, func(f *factory.Proxy) {
		f.Set("name", "Billy")
	})
	require.NoError(t, err)

	def, err := r.Lookup("user")
	require.NoError(t, err)
	for _, alias := range []string{"author", "commenter"} {
		aliased, err := r.Lookup(alias)
		require.NoError(t, err)
		assert.Same(t, def, aliased, "alias %q must resolve to the same definition", alias)
	}
	assert.Equal(t, []string{"author", "commenter", "user"}, r.FactoryNames())
}

func TestDefine_DuplicateNamePanics(t *testing.T) {
	r := New()
	ctx := context.Background()
	require.NoError(t, r.Define(ctx, "user", factory.FactoryOptions{}, nil))

	assert.PanicsWithValue(t, "factory with name 'user' already registered", func() {
		_ = r.Define(ctx, "user", factory.FactoryOptions{}, nil)
	})
}

func TestDefine_UnknownParentFails(t *testing.T) {
	r := New()

	err := r.Define(context.Background(), "admin", factory.FactoryOptions{Parent: "user"}, nil)
	var unknown UnknownFactoryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "user", unknown.Name)
}

func TestDefine_BodyErrorDiscardsDefinition(t *testing.T) {
	r := New()

	err := r.Define(context.Background(), "user", factory.FactoryOptions{}, func(f *factory.Proxy) {
		// Both a value and a function: a definition-time error.
		_ = f.AddAttribute("name", "x", func(decl.Context) (any, error) { return nil, nil })
		f.Set("after", "never declared")
	})

	var defErr decl.AttributeDefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.False(t, r.HasFactory("user"), "a failed body must leave nothing registered")
}

func TestDefine_RegistersBufferedChildren(t *testing.T) {
	r := New()
	ctx := context.Background()

	err := r.Define(ctx, "user", factory.FactoryOptions{}, func(f *factory.Proxy) {
		f.Set("role", "member")
		f.Factory("admin", factory.FactoryOptions{}, func(f *factory.Proxy) {
			f.Set("role", "admin")
			f.Factory("superadmin", factory.FactoryOptions{}, func(f *factory.Proxy) {
				f.Set("role", "superadmin")
			})
		})
	})
	require.NoError(t, err)

	// Children inherit from their enclosing factory by default.
	admin, err := r.Lookup("admin")
	require.NoError(t, err)
	compiled := admin.Compile()
	require.Len(t, compiled, 1)
	assert.Equal(t, "admin", compiled[0].(*decl.Static).Value())

	super, err := r.Lookup("superadmin")
	require.NoError(t, err)
	compiled = super.Compile()
	require.Len(t, compiled, 1)
	assert.Equal(t, "superadmin", compiled[0].(*decl.Static).Value())
}

func TestDefine_ChildExplicitParentIsKept(t *testing.T) {
	r := New()
	ctx := context.Background()

	require.NoError(t, r.Define(ctx, "account", factory.FactoryOptions{}, func(f *factory.Proxy) {
		f.Set("plan", "free")
	}))
	err := r.Define(ctx, "user", factory.FactoryOptions{}, func(f *factory.Proxy) {
		f.Set("name", "Billy")
		f.Factory("paying_user", factory.FactoryOptions{Parent: "account"}, nil)
	})
	require.NoError(t, err)

	paying, err := r.Lookup("paying_user")
	require.NoError(t, err)
	compiled := paying.Compile()
	require.Len(t, compiled, 1)
	assert.Equal(t, "plan", compiled[0].Name())
}

func TestDefinitionWithTraits(t *testing.T) {
	r := New()
	ctx := context.Background()

	require.NoError(t, r.Define(ctx, "user", factory.FactoryOptions{}, func(f *factory.Proxy) {
		f.Set("admin", false)
		f.Trait("admin", func(f *factory.Proxy) {
			f.Set("admin", true)
		})
	}))

	t.Run("no traits returns the registered definition", func(t *testing.T) {
		def, err := r.DefinitionWithTraits(ctx, "user", nil)
		require.NoError(t, err)
		registered, lookupErr := r.Lookup("user")
		require.NoError(t, lookupErr)
		assert.Same(t, registered, def)
	})

	t.Run("traits derive without touching the registered definition", func(t *testing.T) {
		def, err := r.DefinitionWithTraits(ctx, "user", []string{"admin"})
		require.NoError(t, err)

		compiled := def.Compile()
		require.Len(t, compiled, 1)
		assert.Equal(t, true, compiled[0].(*decl.Static).Value())

		registered, lookupErr := r.Lookup("user")
		require.NoError(t, lookupErr)
		assert.Equal(t, false, registered.Compile()[0].(*decl.Static).Value())
	})

	t.Run("unknown trait fails", func(t *testing.T) {
		_, err := r.DefinitionWithTraits(ctx, "user", []string{"nope"})
		var unknown UnknownTraitError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "user", unknown.Factory)
		assert.Equal(t, "nope", unknown.Trait)
	})
}

func TestDefine_TraitOptionAppliesAtDefinitionTime(t *testing.T) {
	r := New()
	ctx := context.Background()

	require.NoError(t, r.Define(ctx, "user", factory.FactoryOptions{}, func(f *factory.Proxy) {
		f.Set("admin", false)
		f.Trait("admin", func(f *factory.Proxy) { f.Set("admin", true) })
	}))
	require.NoError(t, r.Define(ctx, "admin_user", factory.FactoryOptions{Parent: "user", Traits: []string{"admin"}}, nil))

	def, err := r.Lookup("admin_user")
	require.NoError(t, err)
	compiled := def.Compile()
	require.Len(t, compiled, 1)
	assert.Equal(t, true, compiled[0].(*decl.Static).Value())
}

func TestSequences(t *testing.T) {
	r := New()

	r.DefineSequence("email", func(n int64) any {
		return fmt.Sprintf("person%d@example.com", n)
	})

	v, ok := r.SequenceNext("email")
	require.True(t, ok)
	assert.Equal(t, "person1@example.com", v)
	v, ok = r.SequenceNext("email")
	require.True(t, ok)
	assert.Equal(t, "person2@example.com", v)

	_, ok = r.SequenceNext("missing")
	assert.False(t, ok)

	assert.PanicsWithValue(t, "sequence with name 'email' already registered", func() {
		r.DefineSequence("email", nil)
	})
}

func TestCallbackNames(t *testing.T) {
	r := New()

	for _, name := range []string{factory.AfterBuild, factory.BeforeCreate, factory.AfterCreate, factory.AfterStub} {
		assert.True(t, r.KnownCallback(name), "built-in name %q", name)
	}
	assert.False(t, r.KnownCallback("after_publish"))

	r.RegisterCallback("after_publish")
	assert.True(t, r.KnownCallback("after_publish"))

	// Registering through a proxy reaches the same set.
	require.NoError(t, r.Define(context.Background(), "post", factory.FactoryOptions{}, func(f *factory.Proxy) {
		f.Callback("after_review", func(any, decl.Context) error { return nil })
	}))
	assert.True(t, r.KnownCallback("after_review"))
}

func TestLookup_UnknownFactory(t *testing.T) {
	r := New()
	_, err := r.Lookup("ghost")
	var unknown UnknownFactoryError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, err.Error(), `"ghost"`)
}
