// Package output post-processes moment-matrix propagation results: it
// normalizes raw engine records into beam states and collects named
// beam quantities across all monitor points into parallel series.
package output

import (
	"fmt"

	"github.com/kryv/flame-utils/internal/beamstate"
)

// Point is one monitor-point entry of a propagation result. Loc is an
// opaque monitor identifier carried through unmodified. State holds
// either a beamstate.Raw record straight from the engine or an
// already-normalized *beamstate.BeamState.
type Point struct {
	Loc   string
	State any
}

// Result is an ordered sequence of monitor-point entries.
type Result []Point

// Option is a forward-compatibility hook for ConvertResults. No options
// are recognized yet; unknown ones are accepted and ignored.
type Option func(*options)

type options struct{}

// ConvertResults normalizes every entry of a propagation result,
// wrapping each raw engine record through beamstate.New. Locations and
// order pass through unchanged and the input is left untouched. Entries
// that already hold a *beamstate.BeamState are kept as-is; an entry
// holding anything else fails with the constructor's error.
func ConvertResults(res Result, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := make(Result, len(res))
	for i, p := range res {
		switch st := p.State.(type) {
		case *beamstate.BeamState:
			out[i] = p
		case beamstate.Raw:
			bs, err := beamstate.New(st)
			if err != nil {
				return nil, fmt.Errorf("convert %q: %w", p.Loc, err)
			}
			out[i] = Point{Loc: p.Loc, State: bs}
		default:
			return nil, fmt.Errorf("convert %q: %w: state is %T", p.Loc, beamstate.ErrDimensionMismatch, p.State)
		}
	}
	return out, nil
}

// CollectData extracts the requested beam quantities from every entry
// of a propagation result and returns one Series per field name, each
// of length len(res) in input order. Duplicate names collapse; an empty
// request yields an empty map without touching the result.
//
// Entries may be raw engine records: if any entry is not yet a
// BeamState the whole sequence is normalized once before extraction.
// A field name outside the vocabulary fails with an error wrapping
// beamstate.ErrUnknownField; no partial map is returned on any failure.
func CollectData(res Result, fields ...string) (map[string]Series, error) {
	if len(fields) == 0 {
		return map[string]Series{}, nil
	}

	norm := res
	if !normalized(res) {
		var err error
		norm, err = ConvertResults(res)
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]Series, len(fields))
	for _, name := range fields {
		if _, done := out[name]; done {
			continue
		}
		series := make(Series, 0, len(norm))
		for _, p := range norm {
			s := p.State.(*beamstate.BeamState)
			v, err := s.Get(name)
			if err != nil {
				return nil, fmt.Errorf("collect %q at %q: %w", name, p.Loc, err)
			}
			series = append(series, v)
		}
		out[name] = series
	}
	return out, nil
}

// normalized reports whether every entry already holds a BeamState.
func normalized(res Result) bool {
	for _, p := range res {
		if _, ok := p.State.(*beamstate.BeamState); !ok {
			return false
		}
	}
	return true
}
