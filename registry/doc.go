// Package registry provides the central glue for the factory system.
//
// The Registry maps factory names to their compiled definitions, holds the
// process-wide sequences implicit attribute references draw from, and owns
// the set of recognized callback names. It is populated by Define calls
// (directly from Go code or replayed from HCL files by the hclfactory
// loader) and read by build strategies while instances are constructed.
//
// Definition time is single-threaded: a factory must be fully defined before
// any build references it. Lookups, in contrast, happen from concurrently
// running builds, so all registry state is guarded accordingly. Registering
// two factories or two sequences under one name is a programmer error and
// panics, matching the fail-fast posture of startup-time wiring.
package registry
