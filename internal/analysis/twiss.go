// Package analysis derives beamline-level statistics from collected
// propagation data: Twiss parameters, rms emittances and envelope
// extrema along the lattice.
package analysis

import (
	"fmt"
	"math"

	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/output"
)

// Plane selects a 2x2 phase-space block of a correlation tensor.
type Plane int

const (
	PlaneX Plane = iota
	PlaneY
	PlaneZ
)

func (p Plane) String() string {
	switch p {
	case PlaneX:
		return "x"
	case PlaneY:
		return "y"
	case PlaneZ:
		return "z"
	default:
		return "unknown"
	}
}

// indices returns the (position, divergence) coordinate pair of the
// plane.
func (p Plane) indices() (int, int) {
	switch p {
	case PlaneY:
		return beamstate.IdxY, beamstate.IdxYP
	case PlaneZ:
		return beamstate.IdxPhi, beamstate.IdxDEk
	default:
		return beamstate.IdxX, beamstate.IdxXP
	}
}

// Twiss holds the Courant-Snyder parameters of one transverse or
// longitudinal plane, with Emittance the rms emittance of the block.
type Twiss struct {
	Alpha     float64
	Beta      float64
	Gamma     float64
	Emittance float64
}

// TwissOf computes the Twiss parameters of a plane from a state's
// charge-weighted correlation tensor.
func TwissOf(s *beamstate.BeamState, p Plane) (Twiss, error) {
	i, j := p.indices()
	s11 := s.Moment1Env[i][i]
	s12 := s.Moment1Env[i][j]
	s22 := s.Moment1Env[j][j]

	det := s11*s22 - s12*s12
	if det <= 0 {
		return Twiss{}, fmt.Errorf("analysis: degenerate %s-plane block (det %g)", p, det)
	}
	eps := math.Sqrt(det)

	return Twiss{
		Alpha:     -s12 / eps,
		Beta:      s11 / eps,
		Gamma:     s22 / eps,
		Emittance: eps,
	}, nil
}

// Extrema describes the spread of a scalar series along the beamline.
type Extrema struct {
	Min, Max, Mean float64
	MinLoc, MaxLoc string
}

// SeriesExtrema scans a collected scalar series and reports its extrema
// together with the monitor locations where they occur. locs must be
// parallel to the series.
func SeriesExtrema(series output.Series, locs []string) (Extrema, error) {
	if len(series) == 0 {
		return Extrema{}, fmt.Errorf("analysis: empty series")
	}
	if len(locs) != len(series) {
		return Extrema{}, fmt.Errorf("analysis: %d locations for %d points", len(locs), len(series))
	}

	vals, err := series.Floats()
	if err != nil {
		return Extrema{}, err
	}

	ext := Extrema{Min: vals[0], Max: vals[0], MinLoc: locs[0], MaxLoc: locs[0]}
	sum := 0.0
	for i, v := range vals {
		sum += v
		if v < ext.Min {
			ext.Min, ext.MinLoc = v, locs[i]
		}
		if v > ext.Max {
			ext.Max, ext.MaxLoc = v, locs[i]
		}
	}
	ext.Mean = sum / float64(len(vals))
	return ext, nil
}
