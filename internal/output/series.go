package output

import (
	"fmt"

	"github.com/kryv/flame-utils/internal/beamstate"
)

// Series is the per-monitor-point array of one collected quantity, in
// propagation order.
type Series []beamstate.Value

// Kind returns the payload kind shared by the series' values.
// KindScalar for an empty series.
func (s Series) Kind() beamstate.Kind {
	if len(s) == 0 {
		return beamstate.KindScalar
	}
	return s[0].Kind
}

// Floats flattens a scalar series into a plain slice.
func (s Series) Floats() ([]float64, error) {
	out := make([]float64, len(s))
	for i, v := range s {
		if v.Kind != beamstate.KindScalar {
			return nil, fmt.Errorf("series entry %d is a %s, want scalar", i, v.Kind)
		}
		out[i] = v.Scalar
	}
	return out, nil
}

// Component extracts index idx from a vector series, yielding one value
// per monitor point. Used to plot a single charge state or one
// phase-space coordinate of moment0_env.
func (s Series) Component(idx int) ([]float64, error) {
	out := make([]float64, len(s))
	for i, v := range s {
		if v.Kind != beamstate.KindVector {
			return nil, fmt.Errorf("series entry %d is a %s, want vector", i, v.Kind)
		}
		if idx < 0 || idx >= len(v.Vector) {
			return nil, fmt.Errorf("component %d out of range for series entry %d (dim %d)", idx, i, len(v.Vector))
		}
		out[i] = v.Vector[idx]
	}
	return out, nil
}

// Vectors flattens a vector series into rows, one per monitor point.
func (s Series) Vectors() ([][]float64, error) {
	out := make([][]float64, len(s))
	for i, v := range s {
		if v.Kind != beamstate.KindVector {
			return nil, fmt.Errorf("series entry %d is a %s, want vector", i, v.Kind)
		}
		out[i] = v.Vector
	}
	return out, nil
}

// Matrices flattens a matrix series, one matrix per monitor point.
func (s Series) Matrices() ([][][]float64, error) {
	out := make([][][]float64, len(s))
	for i, v := range s {
		if v.Kind != beamstate.KindMatrix {
			return nil, fmt.Errorf("series entry %d is a %s, want matrix", i, v.Kind)
		}
		out[i] = v.Matrix
	}
	return out, nil
}
