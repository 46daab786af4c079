// Package beamstate models the statistical description of an ion beam at
// one monitor point of a moment-matrix propagation run.
//
// The package defines the value objects shared by the post-processing
// layers:
//
//   - [Raw]: the per-monitor output emitted by the propagation engine
//   - [BeamState]: derived reference-particle and ensemble quantities
//   - [Value]: scalar / vector / matrix / tensor numeric payload
//
// A BeamState is immutable once built by [New]. Quantities are addressed
// through a closed field vocabulary (see [Fields]); the FLAME-era alias
// names (xcen, beammatrix, ...) resolve to the same quantities.
package beamstate
