package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fabrica/decl"
)

func staticNames(decls []decl.Declaration) []string {
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name())
	}
	return names
}

func TestDefinition_CompileLastDeclarationWins(t *testing.T) {
	def := NewDefinition("user")
	def.DeclareAttribute(decl.NewStatic("name", "first", false))
	def.DeclareAttribute(decl.NewStatic("email", "e@example.com", false))
	def.DeclareAttribute(decl.NewStatic("name", "second", false))

	compiled := def.Compile()

	// The override keeps the first occurrence's position.
	require.Equal(t, []string{"name", "email"}, staticNames(compiled))
	winner := compiled[0].(*decl.Static)
	assert.Equal(t, "second", winner.Value())
}

func TestDefinition_CompileIsCached(t *testing.T) {
	def := NewDefinition("user")
	def.DeclareAttribute(decl.NewStatic("name", "Billy", false))

	first := def.Compile()
	second := def.Compile()
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0])
}

func TestDefinition_InheritFrom(t *testing.T) {
	parent := NewDefinition("user")
	parent.DeclareAttribute(decl.NewStatic("name", "parent-name", false))
	parent.DeclareAttribute(decl.NewStatic("role", "member", false))
	parent.AddCallback(NewCallback(AfterBuild, func(any, decl.Context) error { return nil }))
	parent.DefineTrait(NewTrait("admin", func(*Proxy) {}))

	child := NewDefinition("admin_user")
	child.DeclareAttribute(decl.NewStatic("role", "admin", false))
	child.InheritFrom(parent)

	// Parent declarations come first, so the child's own override wins.
	compiled := child.Compile()
	require.Equal(t, []string{"name", "role"}, staticNames(compiled))
	assert.Equal(t, "admin", compiled[1].(*decl.Static).Value())

	// Parent callbacks and traits carry over.
	assert.Len(t, child.Callbacks(AfterBuild), 1)
	_, ok := child.Trait("admin")
	assert.True(t, ok)
}

func TestDefinition_InheritFromChildTraitShadowsParent(t *testing.T) {
	parentTrait := NewTrait("admin", func(f *Proxy) { f.Set("level", 1) })
	childTrait := NewTrait("admin", func(f *Proxy) { f.Set("level", 2) })

	parent := NewDefinition("user")
	parent.DefineTrait(parentTrait)

	child := NewDefinition("admin_user")
	child.DefineTrait(childTrait)
	child.InheritFrom(parent)

	got, ok := child.Trait("admin")
	require.True(t, ok)
	assert.Same(t, childTrait, got)
}

func TestDefinition_InheritFromCopiesCreateBehavior(t *testing.T) {
	parent := NewDefinition("user")
	parent.SkipCreate()

	child := NewDefinition("admin_user")
	child.InheritFrom(parent)

	_, skip := child.CreateOverride()
	assert.True(t, skip)
}

func TestDefinition_CallbacksFilterByNamePreservingOrder(t *testing.T) {
	def := NewDefinition("user")
	var order []int
	def.AddCallback(NewCallback(AfterBuild, func(any, decl.Context) error { order = append(order, 1); return nil }))
	def.AddCallback(NewCallback(BeforeCreate, func(any, decl.Context) error { order = append(order, 2); return nil }))
	def.AddCallback(NewCallback(AfterBuild, func(any, decl.Context) error { order = append(order, 3); return nil }))

	cbs := def.Callbacks(AfterBuild)
	require.Len(t, cbs, 2)
	for _, cb := range cbs {
		require.NoError(t, cb.Run(nil, noopContext{}))
	}
	assert.Equal(t, []int{1, 3}, order)
}

func TestDefinition_ToCreateAndSkipCreateAreMutuallyExclusive(t *testing.T) {
	def := NewDefinition("user")
	def.ToCreate(func(any) error { return nil })
	def.SkipCreate()

	fn, skip := def.CreateOverride()
	assert.Nil(t, fn)
	assert.True(t, skip)

	def.ToCreate(func(any) error { return nil })
	fn, skip = def.CreateOverride()
	assert.NotNil(t, fn)
	assert.False(t, skip)
}
