package decl

// Static is a declaration that always resolves to a fixed value. A nil value
// is legal and means "attribute with no default"; it is still a real
// declaration, distinct from an Implicit reference.
type Static struct {
	name    string
	ignored bool
	value   any
}

// NewStatic creates a fixed-value declaration.
func NewStatic(name string, value any, ignored bool) *Static {
	return &Static{name: name, ignored: ignored, value: value}
}

// Name implements Declaration.
func (s *Static) Name() string { return s.name }

// Ignored implements Declaration.
func (s *Static) Ignored() bool { return s.ignored }

// Value returns the stored value without resolving.
func (s *Static) Value() any { return s.value }

// Resolve implements Declaration. It returns the stored value unconditionally.
func (s *Static) Resolve(_ Context) (any, error) {
	return s.value, nil
}
