package beamstate

import (
	"fmt"
	"math"
)

// PSDim is the phase-space dimension of one centroid vector:
// [x, x', y, y', phi, dEk, 1] in [mm, rad, mm, rad, rad, MeV/u, 1].
const PSDim = 7

// Phase-space coordinate indices into a centroid vector or moment matrix.
const (
	IdxX = iota
	IdxXP
	IdxY
	IdxYP
	IdxPhi
	IdxDEk
)

// DefaultSampleFreq is the RF sample frequency [Hz] used for the
// SampleIonK wave-vector when the raw state does not carry one.
const DefaultSampleFreq = 80.5e6

const lightSpeed = 299792458.0 // [m/s]

// Raw is the per-monitor-point output of the propagation engine, before
// derived quantities are computed. All per-charge-state slices must have
// the same length; Moment0 rows are PSDim-vectors and Moment1 blocks are
// PSDim x PSDim matrices.
type Raw struct {
	// Pos is the longitudinal position along the lattice, [m].
	Pos float64

	// Reference charge state quantities.
	RefIonZ  float64 // charge-to-mass ratio
	RefIonEs float64 // rest energy, [eV/u]
	RefIonEk float64 // kinetic energy, [eV/u]
	RefPhis  float64 // absolute synchrotron phase, [rad]

	// SampleFreq is the RF sample frequency, [Hz]. Zero selects
	// DefaultSampleFreq.
	SampleFreq float64

	// Per charge state.
	IonZ    []float64     // charge-to-mass ratios
	IonQ    []float64     // macro particle counts
	IonEs   []float64     // rest energies, [eV/u]
	IonEk   []float64     // kinetic energies, [eV/u]
	Phis    []float64     // synchrotron phases, [rad]
	Moment0 [][]float64   // centroid vectors, [ncs][PSDim]
	Moment1 [][][]float64 // correlation tensors, [ncs][PSDim][PSDim]
}

// ChargeStates returns the number of charge states described by the raw
// record.
func (r Raw) ChargeStates() int { return len(r.IonZ) }

// BeamState is the full statistical description of the beam at one
// monitor point. Instances are built by New and treated as immutable.
type BeamState struct {
	Pos float64

	RefIonZ       float64
	RefIonEs      float64
	RefIonEk      float64
	RefIonW       float64
	RefIonQ       float64
	RefPhis       float64
	RefBeta       float64
	RefGamma      float64
	RefBG         float64
	RefSampleIonK float64

	IonZ       []float64
	IonQ       []float64
	IonEs      []float64
	IonEk      []float64
	IonW       []float64
	Phis       []float64
	Beta       []float64
	Gamma      []float64
	BG         []float64
	SampleIonK []float64

	Moment0 [][]float64   // [ncs][PSDim]
	Moment1 [][][]float64 // [ncs][PSDim][PSDim]

	Moment0Env []float64   // charge-weighted centroid, [PSDim]
	Moment0RMS []float64   // rms envelope from Moment1Env diagonal, [PSDim]
	Moment1Env [][]float64 // charge-weighted correlation tensor, [PSDim][PSDim]
}

// New builds a BeamState from a raw propagation record, validating the
// record's dimensions and computing all derived quantities.
func New(raw Raw) (*BeamState, error) {
	ncs := raw.ChargeStates()
	if ncs == 0 {
		return nil, ErrNoChargeStates
	}
	if err := checkDims(raw, ncs); err != nil {
		return nil, err
	}

	freq := raw.SampleFreq
	if freq == 0 {
		freq = DefaultSampleFreq
	}
	lambda := lightSpeed / freq

	s := &BeamState{
		Pos:      raw.Pos,
		RefIonZ:  raw.RefIonZ,
		RefIonEs: raw.RefIonEs,
		RefIonEk: raw.RefIonEk,
		RefPhis:  raw.RefPhis,
		RefIonQ:  raw.IonQ[0],
		IonZ:     append([]float64(nil), raw.IonZ...),
		IonQ:     append([]float64(nil), raw.IonQ...),
		IonEs:    append([]float64(nil), raw.IonEs...),
		IonEk:    append([]float64(nil), raw.IonEk...),
		Phis:     append([]float64(nil), raw.Phis...),
	}

	s.RefIonW = raw.RefIonEs + raw.RefIonEk
	s.RefGamma, s.RefBeta = lorentz(raw.RefIonEk, raw.RefIonEs)
	s.RefBG = s.RefBeta * s.RefGamma
	s.RefSampleIonK = waveVector(s.RefBeta, lambda)

	s.IonW = make([]float64, ncs)
	s.Beta = make([]float64, ncs)
	s.Gamma = make([]float64, ncs)
	s.BG = make([]float64, ncs)
	s.SampleIonK = make([]float64, ncs)
	for i := 0; i < ncs; i++ {
		s.IonW[i] = raw.IonEs[i] + raw.IonEk[i]
		s.Gamma[i], s.Beta[i] = lorentz(raw.IonEk[i], raw.IonEs[i])
		s.BG[i] = s.Beta[i] * s.Gamma[i]
		s.SampleIonK[i] = waveVector(s.Beta[i], lambda)
	}

	s.Moment0 = make([][]float64, ncs)
	s.Moment1 = make([][][]float64, ncs)
	for i := 0; i < ncs; i++ {
		s.Moment0[i] = append([]float64(nil), raw.Moment0[i]...)
		s.Moment1[i] = make([][]float64, PSDim)
		for j := 0; j < PSDim; j++ {
			s.Moment1[i][j] = append([]float64(nil), raw.Moment1[i][j]...)
		}
	}

	s.computeEnvelope()

	return s, nil
}

func checkDims(raw Raw, ncs int) error {
	per := map[string]int{
		"IonQ":    len(raw.IonQ),
		"IonEs":   len(raw.IonEs),
		"IonEk":   len(raw.IonEk),
		"Phis":    len(raw.Phis),
		"Moment0": len(raw.Moment0),
		"Moment1": len(raw.Moment1),
	}
	for name, n := range per {
		if n != ncs {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrDimensionMismatch, name, n, ncs)
		}
	}
	for i := 0; i < ncs; i++ {
		if len(raw.Moment0[i]) != PSDim {
			return fmt.Errorf("%w: Moment0[%d] has dim %d, want %d", ErrDimensionMismatch, i, len(raw.Moment0[i]), PSDim)
		}
		if len(raw.Moment1[i]) != PSDim {
			return fmt.Errorf("%w: Moment1[%d] has %d rows, want %d", ErrDimensionMismatch, i, len(raw.Moment1[i]), PSDim)
		}
		for j := 0; j < PSDim; j++ {
			if len(raw.Moment1[i][j]) != PSDim {
				return fmt.Errorf("%w: Moment1[%d][%d] has dim %d, want %d", ErrDimensionMismatch, i, j, len(raw.Moment1[i][j]), PSDim)
			}
		}
	}
	return nil
}

// computeEnvelope fills Moment0Env, Moment1Env and Moment0RMS with the
// charge-weighted ensemble statistics. The envelope correlation tensor
// includes the spread of the per-charge-state centroids around the
// weighted mean, so Moment0RMS describes the whole ensemble rather than
// a single charge state.
func (s *BeamState) computeEnvelope() {
	ncs := len(s.IonZ)

	weights := make([]float64, ncs)
	total := 0.0
	for _, q := range s.IonQ {
		total += q
	}
	for i := range weights {
		if total > 0 {
			weights[i] = s.IonQ[i] / total
		} else {
			weights[i] = 1.0 / float64(ncs)
		}
	}

	s.Moment0Env = make([]float64, PSDim)
	for i := 0; i < ncs; i++ {
		for j := 0; j < PSDim; j++ {
			s.Moment0Env[j] += weights[i] * s.Moment0[i][j]
		}
	}

	s.Moment1Env = make([][]float64, PSDim)
	for j := 0; j < PSDim; j++ {
		s.Moment1Env[j] = make([]float64, PSDim)
	}
	for i := 0; i < ncs; i++ {
		for j := 0; j < PSDim; j++ {
			dj := s.Moment0[i][j] - s.Moment0Env[j]
			for k := 0; k < PSDim; k++ {
				dk := s.Moment0[i][k] - s.Moment0Env[k]
				s.Moment1Env[j][k] += weights[i] * (s.Moment1[i][j][k] + dj*dk)
			}
		}
	}

	s.Moment0RMS = make([]float64, PSDim)
	for j := 0; j < PSDim; j++ {
		s.Moment0RMS[j] = math.Sqrt(math.Abs(s.Moment1Env[j][j]))
	}
}

// lorentz returns (gamma, beta) for a kinetic and rest energy in [eV/u].
func lorentz(ek, es float64) (gamma, beta float64) {
	if es == 0 {
		return 1, 0
	}
	gamma = 1 + ek/es
	beta = math.Sqrt(1 - 1/(gamma*gamma))
	return gamma, beta
}

// waveVector returns 2*pi/(beta*lambda), [rad/m]. Zero beta yields zero
// rather than an infinity so a beam at rest stays representable.
func waveVector(beta, lambda float64) float64 {
	if beta == 0 {
		return 0
	}
	return 2 * math.Pi / (beta * lambda)
}

// centroidRow returns the idx coordinate of every charge state's
// centroid vector.
func (s *BeamState) centroidRow(idx int) []float64 {
	out := make([]float64, len(s.Moment0))
	for i, m := range s.Moment0 {
		out[i] = m[idx]
	}
	return out
}

// rmsRow returns the per-charge-state rms spread along the idx
// coordinate, from each charge state's own correlation tensor.
func (s *BeamState) rmsRow(idx int) []float64 {
	out := make([]float64, len(s.Moment1))
	for i, m := range s.Moment1 {
		out[i] = math.Sqrt(math.Abs(m[idx][idx]))
	}
	return out
}
