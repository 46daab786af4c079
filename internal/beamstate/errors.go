package beamstate

import "errors"

// Domain errors for beam state construction and field access.
var (
	// ErrNoChargeStates indicates a raw state with an empty charge-state list.
	ErrNoChargeStates = errors.New("beamstate: raw state has no charge states")

	// ErrDimensionMismatch indicates per-charge-state arrays or moment
	// blocks with inconsistent dimensions.
	ErrDimensionMismatch = errors.New("beamstate: dimension mismatch in raw state")

	// ErrUnknownField indicates a field name outside the vocabulary.
	ErrUnknownField = errors.New("beamstate: unknown field")
)
