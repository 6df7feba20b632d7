// Package decl defines attribute declarations and the protocol by which a
// build strategy resolves them into concrete values.
//
// A Declaration is one rule for producing a single named attribute of a
// factory-built instance. Declarations come in four variants: Static (a fixed
// value), Dynamic (a function evaluated lazily against the build context),
// Implicit (a bare name resolved to a sequence or an association at build
// time), and Association (a reference to another factory).
//
// Declarations are immutable after construction. The same Declaration may be
// resolved concurrently across independent instance builds, provided each
// build supplies its own Context.
package decl
