// Package factory holds the definition side of fabrica: the Definition
// accumulator and the Proxy, the DSL front-end that declarative factory
// bodies run against.
//
// A factory body is an ordinary Go function receiving a *Proxy. Every call on
// the proxy either is one of its named operations (Set, Lazy, Sequence,
// Association, Trait, ...) or goes through Apply, the closed-set dispatcher
// that classifies a raw call by its shape. Both front-ends — Go functions and
// the HCL loader — feed the same dispatcher, so the classification rules are
// enforced in exactly one place.
//
// During body evaluation the proxy mutates its Definition. Once the body
// returns the Definition is treated as immutable; the registry only binds it
// to a name at that point, and a body that fails leaves nothing registered.
package factory
