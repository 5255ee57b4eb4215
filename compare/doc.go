// Package compare implements the comparison kernel library: scalar
// and vector predicates over raw memory bytes, built
// from unaligned loads and wrapping arithmetic, never allocating and
// never branching on data-dependent control flow that would make a
// kernel impure.
//
// compare.Provider implements datatype.KernelProvider and is injected
// into a datatype.Registry at construction time (see provider.go) —
// this is how the datatype <-> compare import cycle is avoided: the
// registry only knows the provider interface, and compare is the only
// package that imports both datatype and the kernel internals.
package compare
