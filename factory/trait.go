package factory

// Trait is a named, reusable bundle of declarations. Its body has the same
// shape as a factory body; applying a trait replays that body against the
// host factory's proxy, appending the trait's declarations onto the host
// definition. Each application produces fresh declarations, so two factories
// using the same trait share no mutable state.
type Trait struct {
	name string
	fn   DeclarationFunc
}

// NewTrait creates a trait from a declaration body.
func NewTrait(name string, fn DeclarationFunc) *Trait {
	return &Trait{name: name, fn: fn}
}

// Name returns the trait name.
func (t *Trait) Name() string { return t.name }

// Fn returns the trait's declaration body.
func (t *Trait) Fn() DeclarationFunc { return t.fn }
