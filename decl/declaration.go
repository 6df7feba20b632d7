package decl

// DynamicFunc computes an attribute value against the build context. It is
// invoked at most once per instance build, and never when the attribute was
// overridden for that instance.
type DynamicFunc func(ctx Context) (any, error)

// Context is the build-time collaborator a Declaration resolves against. It
// is implemented by the strategy package's per-instance resolver; a separate
// Context must be used for each instance being built.
type Context interface {
	// FactoryName returns the name of the factory whose instance is being
	// built. Used for error reporting.
	FactoryName() string

	// Attr resolves another attribute of the same instance. Results are
	// memoized, so dependent attributes observe a consistent value.
	Attr(name string) (any, error)

	// NextSequenceValue draws the next value from the globally registered
	// sequence of the given name. ok is false when no such sequence exists.
	NextSequenceValue(name string) (value any, ok bool)

	// HasFactory reports whether a factory of the given name is registered.
	HasFactory(name string) bool

	// BuildAssociation builds an instance of the named factory with the
	// given attribute overrides, using the same strategy as the current
	// build.
	BuildAssociation(factoryName string, overrides map[string]any) (any, error)
}

// Declaration is one attribute-assignment rule owned by a factory definition.
type Declaration interface {
	// Name is the attribute name the declaration produces a value for.
	Name() string

	// Ignored reports whether the attribute is transient: computed and
	// visible to dependent attributes, but never assigned to the final
	// instance.
	Ignored() bool

	// Resolve produces the attribute value for one instance build.
	Resolve(ctx Context) (any, error)
}
