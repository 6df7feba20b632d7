package decl

// Implicit is a declaration that carries only a name. Its meaning is deferred
// until build time: the name must then match either a registered sequence or
// a registered factory (treated as an association). A sequence wins when both
// exist under the same name; see the package documentation of registry for
// the rationale behind the tie-break.
type Implicit struct {
	name    string
	ignored bool
}

// NewImplicit creates a bare-name declaration.
func NewImplicit(name string, ignored bool) *Implicit {
	return &Implicit{name: name, ignored: ignored}
}

// Name implements Declaration.
func (i *Implicit) Name() string { return i.name }

// Ignored implements Declaration.
func (i *Implicit) Ignored() bool { return i.ignored }

// Resolve implements Declaration. It looks up a sequence first, then an
// association, and fails naming the factory and attribute when neither
// exists.
func (i *Implicit) Resolve(ctx Context) (any, error) {
	if v, ok := ctx.NextSequenceValue(i.name); ok {
		return v, nil
	}
	if ctx.HasFactory(i.name) {
		return ctx.BuildAssociation(i.name, nil)
	}
	return nil, UnresolvableAttributeError{Factory: ctx.FactoryName(), Attribute: i.name}
}
