// Package strategy evaluates compiled factory definitions into concrete
// instances.
//
// A Builder wraps a registry and exposes the four build strategies:
// AttributesFor (attribute hash only, no callbacks, associations skipped),
// Build (in-memory object, after_build callbacks), Create (Build plus the
// persistence step and before_create/after_create callbacks) and Stub (no
// persistence, a generated ID, after_stub callbacks).
//
// Each instance build gets its own resolver, which implements decl.Context:
// it applies caller overrides before any declaration runs, memoizes every
// attribute on first resolution so dependent attributes observe one
// consistent value, and builds associations through the registry with the
// same strategy as the parent build. Resolvers are single-use and not safe
// for concurrent resolution of one instance; building many instances
// concurrently is fine since every build owns its resolver.
package strategy
