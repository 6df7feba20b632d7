package registry

import "strconv"

// UnknownFactoryError is returned when no factory is registered under the
// requested name.
type UnknownFactoryError struct{ Name string }

// Error implements the error interface.
func (e UnknownFactoryError) Error() string {
	return "fabrica: factory " + strconv.Quote(e.Name) + " is not registered"
}

// UnknownTraitError is returned when a build or definition requests a trait
// the factory does not define.
type UnknownTraitError struct {
	Factory string
	Trait   string
}

// Error implements the error interface.
func (e UnknownTraitError) Error() string {
	return "fabrica: factory " + strconv.Quote(e.Factory) + " has no trait " + strconv.Quote(e.Trait)
}
