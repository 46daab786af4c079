package analysis

import (
	"math"
	"testing"

	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/output"
)

func stateWithBlock(s11, s12, s22 float64) *beamstate.BeamState {
	m0 := [][]float64{make([]float64, beamstate.PSDim)}
	m1 := [][][]float64{make([][]float64, beamstate.PSDim)}
	for j := range m1[0] {
		m1[0][j] = make([]float64, beamstate.PSDim)
	}
	m1[0][beamstate.IdxX][beamstate.IdxX] = s11
	m1[0][beamstate.IdxX][beamstate.IdxXP] = s12
	m1[0][beamstate.IdxXP][beamstate.IdxX] = s12
	m1[0][beamstate.IdxXP][beamstate.IdxXP] = s22

	bs, err := beamstate.New(beamstate.Raw{
		RefIonEs: 931.49432e6,
		RefIonEk: 500e3,
		IonZ:     []float64{0.14},
		IonQ:     []float64{1},
		IonEs:    []float64{931.49432e6},
		IonEk:    []float64{500e3},
		Phis:     []float64{0},
		Moment0:  m0,
		Moment1:  m1,
	})
	if err != nil {
		panic(err)
	}
	return bs
}

func TestTwissUncorrelated(t *testing.T) {
	s := stateWithBlock(4, 0, 1)

	tw, err := TwissOf(s, PlaneX)
	if err != nil {
		t.Fatalf("twiss failed: %v", err)
	}

	// sigma = diag(4, 1): eps = 2, beta = 2, gamma = 0.5, alpha = 0.
	if math.Abs(tw.Emittance-2) > 1e-12 {
		t.Errorf("expected emittance 2, got %v", tw.Emittance)
	}
	if math.Abs(tw.Beta-2) > 1e-12 {
		t.Errorf("expected beta 2, got %v", tw.Beta)
	}
	if math.Abs(tw.Gamma-0.5) > 1e-12 {
		t.Errorf("expected gamma 0.5, got %v", tw.Gamma)
	}
	if math.Abs(tw.Alpha) > 1e-12 {
		t.Errorf("expected alpha 0, got %v", tw.Alpha)
	}
}

func TestTwissCorrelated(t *testing.T) {
	s := stateWithBlock(4, -1, 1)

	tw, err := TwissOf(s, PlaneX)
	if err != nil {
		t.Fatalf("twiss failed: %v", err)
	}

	eps := math.Sqrt(4*1 - 1)
	if math.Abs(tw.Emittance-eps) > 1e-12 {
		t.Errorf("expected emittance %v, got %v", eps, tw.Emittance)
	}
	if math.Abs(tw.Alpha-1/eps) > 1e-12 {
		t.Errorf("expected alpha %v, got %v", 1/eps, tw.Alpha)
	}

	// Twiss identity: beta*gamma - alpha^2 = 1.
	if math.Abs(tw.Beta*tw.Gamma-tw.Alpha*tw.Alpha-1) > 1e-12 {
		t.Error("Twiss identity violated")
	}
}

func TestTwissDegenerate(t *testing.T) {
	s := stateWithBlock(1, 1, 1)

	if _, err := TwissOf(s, PlaneX); err == nil {
		t.Fatal("expected error for zero-determinant block")
	}
}

func TestSeriesExtrema(t *testing.T) {
	series := output.Series{
		{Kind: beamstate.KindScalar, Scalar: 2},
		{Kind: beamstate.KindScalar, Scalar: -1},
		{Kind: beamstate.KindScalar, Scalar: 5},
	}
	locs := []string{"m1", "m2", "m3"}

	ext, err := SeriesExtrema(series, locs)
	if err != nil {
		t.Fatalf("extrema failed: %v", err)
	}

	if ext.Min != -1 || ext.MinLoc != "m2" {
		t.Errorf("unexpected min %v at %s", ext.Min, ext.MinLoc)
	}
	if ext.Max != 5 || ext.MaxLoc != "m3" {
		t.Errorf("unexpected max %v at %s", ext.Max, ext.MaxLoc)
	}
	if math.Abs(ext.Mean-2) > 1e-12 {
		t.Errorf("expected mean 2, got %v", ext.Mean)
	}
}

func TestSeriesExtremaErrors(t *testing.T) {
	if _, err := SeriesExtrema(output.Series{}, nil); err == nil {
		t.Error("expected error for empty series")
	}

	series := output.Series{{Kind: beamstate.KindScalar, Scalar: 1}}
	if _, err := SeriesExtrema(series, []string{"a", "b"}); err == nil {
		t.Error("expected error for mismatched locations")
	}
}
