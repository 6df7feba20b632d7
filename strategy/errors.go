package strategy

import "strconv"

// UnknownAttributeError is returned when a dynamic declaration or callback
// reads an attribute the factory neither declares nor received as an
// override.
type UnknownAttributeError struct {
	Factory   string
	Attribute string
}

// Error implements the error interface.
func (e UnknownAttributeError) Error() string {
	return "fabrica: factory " + strconv.Quote(e.Factory) + " has no attribute " + strconv.Quote(e.Attribute)
}

// CyclicAttributeError is returned when dependent attributes form a cycle,
// e.g. a depends on b while b depends on a.
type CyclicAttributeError struct {
	Factory   string
	Attribute string
}

// Error implements the error interface.
func (e CyclicAttributeError) Error() string {
	return "fabrica: factory " + strconv.Quote(e.Factory) + " has a dependency cycle through attribute " + strconv.Quote(e.Attribute)
}
