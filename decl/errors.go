package decl

import "strconv"

// AttributeDefinitionError is returned when an attribute is declared with
// both a literal value and a function. It is surfaced at definition time and
// the offending declaration is not recorded.
type AttributeDefinitionError struct{ Attribute string }

// Error implements the error interface.
func (e AttributeDefinitionError) Error() string {
	return "fabrica: attribute " + strconv.Quote(e.Attribute) + " declared with both a value and a function"
}

// UnresolvableAttributeError is returned at build time when an Implicit
// declaration matches neither a sequence nor a factory.
type UnresolvableAttributeError struct {
	Factory   string
	Attribute string
}

// Error implements the error interface.
func (e UnresolvableAttributeError) Error() string {
	return "fabrica: factory " + strconv.Quote(e.Factory) + " has no sequence or factory to satisfy attribute " + strconv.Quote(e.Attribute)
}

// InvalidAssociationError is returned at definition time when an association
// options mapping is malformed.
type InvalidAssociationError struct {
	Attribute string
	Detail    string
}

// Error implements the error interface.
func (e InvalidAssociationError) Error() string {
	return "fabrica: invalid association " + strconv.Quote(e.Attribute) + ": " + e.Detail
}
