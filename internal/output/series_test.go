package output

import (
	"testing"

	"github.com/kryv/flame-utils/internal/beamstate"
)

func TestSeriesFloats(t *testing.T) {
	s := Series{
		{Kind: beamstate.KindScalar, Scalar: 1.5},
		{Kind: beamstate.KindScalar, Scalar: -2.0},
	}

	vals, err := s.Floats()
	if err != nil {
		t.Fatalf("floats failed: %v", err)
	}
	if vals[0] != 1.5 || vals[1] != -2.0 {
		t.Errorf("unexpected values %v", vals)
	}
}

func TestSeriesFloatsRejectsVectors(t *testing.T) {
	s := Series{{Kind: beamstate.KindVector, Vector: []float64{1, 2}}}

	if _, err := s.Floats(); err == nil {
		t.Fatal("expected error for vector series")
	}
}

func TestSeriesComponent(t *testing.T) {
	s := Series{
		{Kind: beamstate.KindVector, Vector: []float64{1, 10}},
		{Kind: beamstate.KindVector, Vector: []float64{2, 20}},
	}

	vals, err := s.Component(1)
	if err != nil {
		t.Fatalf("component failed: %v", err)
	}
	if vals[0] != 10 || vals[1] != 20 {
		t.Errorf("unexpected values %v", vals)
	}

	if _, err := s.Component(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestSeriesKindEmpty(t *testing.T) {
	if (Series{}).Kind() != beamstate.KindScalar {
		t.Error("empty series should default to scalar kind")
	}
}
