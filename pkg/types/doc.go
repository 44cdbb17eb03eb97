// Package types defines the small set of shared, dependency-free types used
// across mp4kit: the FourCC box code, typed errors with stable categories, and
// the traversal limits applied while decoding.
//
// Design goals:
//   - Typed errors callers can branch on with errors.Is.
//   - Bounded traversal; never panic on malformed input.
//
// This package has no dependencies beyond the standard library.
package types
