package decl

// FactoryKey is the option key that names the factory an association builds.
// An options mapping containing this key is what distinguishes the
// association shorthand from an ordinary attribute value.
const FactoryKey = "factory"

// Association is a declaration that builds an instance of another factory.
// Any options besides FactoryKey are passed through as attribute overrides
// for the associated build.
type Association struct {
	name        string
	ignored     bool
	factoryName string
	overrides   map[string]any
}

// NewAssociation creates an association declaration from an options mapping.
// When the mapping lacks a FactoryKey entry the factory name defaults to the
// attribute name itself.
func NewAssociation(name string, options map[string]any, ignored bool) (*Association, error) {
	factoryName := name
	overrides := make(map[string]any, len(options))
	for k, v := range options {
		if k == FactoryKey {
			s, ok := v.(string)
			if !ok {
				return nil, InvalidAssociationError{Attribute: name, Detail: "the factory option must be a string"}
			}
			factoryName = s
			continue
		}
		overrides[k] = v
	}
	return &Association{
		name:        name,
		ignored:     ignored,
		factoryName: factoryName,
		overrides:   overrides,
	}, nil
}

// Name implements Declaration.
func (a *Association) Name() string { return a.name }

// Ignored implements Declaration.
func (a *Association) Ignored() bool { return a.ignored }

// Factory returns the name of the factory the association builds.
func (a *Association) Factory() string { return a.factoryName }

// Overrides returns the attribute overrides applied to the associated build.
// The returned map must not be mutated.
func (a *Association) Overrides() map[string]any { return a.overrides }

// Resolve implements Declaration. It delegates to the build context, which
// builds the referenced factory with the same strategy as the parent build.
func (a *Association) Resolve(ctx Context) (any, error) {
	return ctx.BuildAssociation(a.factoryName, a.overrides)
}
