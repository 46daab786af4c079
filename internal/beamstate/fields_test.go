package beamstate

import (
	"errors"
	"sort"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		alias, canonical string
	}{
		{"xcen_all", "x0"},
		{"xcen", "x0_env"},
		{"xrms", "x0_rms"},
		{"cenvector", "moment0_env"},
		{"cenvector_all", "moment0"},
		{"rmsvector", "moment0_rms"},
		{"beammatrix", "moment1_env"},
		{"beammatrix_all", "moment1"},
		{"x0", "x0"},
		{"bogus", "bogus"},
	}

	for _, tt := range tests {
		if got := Canonical(tt.alias); got != tt.canonical {
			t.Errorf("Canonical(%q) = %q, want %q", tt.alias, got, tt.canonical)
		}
	}
}

func TestFieldsClosedVocabulary(t *testing.T) {
	fields := Fields()
	if !sort.StringsAreSorted(fields) {
		t.Error("Fields() must be sorted")
	}

	for _, name := range fields {
		if !IsField(name) {
			t.Errorf("canonical field %q not recognized", name)
		}
	}

	// Every alias resolves into the vocabulary.
	for alias := range aliases {
		if !IsField(alias) {
			t.Errorf("alias %q not recognized", alias)
		}
	}

	if IsField("momentum_flux") {
		t.Error("vocabulary must be closed")
	}
}

func TestGetKinds(t *testing.T) {
	s, err := New(validRaw())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	tests := []struct {
		field string
		kind  Kind
	}{
		{"pos", KindScalar},
		{"ref_beta", KindScalar},
		{"x0_env", KindScalar},
		{"dEk0_rms", KindScalar},
		{"gamma", KindVector},
		{"x0", KindVector},
		{"phirms_all", KindVector},
		{"moment0_env", KindVector},
		{"moment0_rms", KindVector},
		{"moment0", KindMatrix},
		{"moment1_env", KindMatrix},
		{"moment1", KindTensor},
	}

	for _, tt := range tests {
		v, err := s.Get(tt.field)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", tt.field, err)
		}
		if v.Kind != tt.kind {
			t.Errorf("Get(%q) kind = %s, want %s", tt.field, v.Kind, tt.kind)
		}

		declared, ok := FieldKind(tt.field)
		if !ok || declared != tt.kind {
			t.Errorf("FieldKind(%q) = %s, want %s", tt.field, declared, tt.kind)
		}
	}
}

func TestGetValues(t *testing.T) {
	s, err := New(validRaw())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	v, err := s.Get("x0")
	if err != nil {
		t.Fatalf("Get(x0) failed: %v", err)
	}
	if len(v.Vector) != 2 || v.Vector[0] != 1 || v.Vector[1] != 5 {
		t.Errorf("unexpected x0 %v", v.Vector)
	}

	v, err = s.Get("pos")
	if err != nil {
		t.Fatalf("Get(pos) failed: %v", err)
	}
	if v.Scalar != 1.25 {
		t.Errorf("unexpected pos %v", v.Scalar)
	}

	// Alias and canonical name agree.
	a, err := s.Get("xcen")
	if err != nil {
		t.Fatalf("Get(xcen) failed: %v", err)
	}
	b, err := s.Get("x0_env")
	if err != nil {
		t.Fatalf("Get(x0_env) failed: %v", err)
	}
	if a.Scalar != b.Scalar {
		t.Errorf("alias mismatch: %v vs %v", a.Scalar, b.Scalar)
	}

	v, err = s.Get("moment1")
	if err != nil {
		t.Fatalf("Get(moment1) failed: %v", err)
	}
	if len(v.Tensor) != 2 || len(v.Tensor[0]) != PSDim {
		t.Error("unexpected moment1 shape")
	}
}

func TestGetUnknown(t *testing.T) {
	s, err := New(validRaw())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	_, err = s.Get("no_such_field")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

// Every declared vocabulary entry must be reachable through Get with
// the declared kind, keeping the static table and the accessor switch
// in sync.
func TestVocabularyAndGetAgree(t *testing.T) {
	s, err := New(validRaw())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	for _, name := range Fields() {
		v, err := s.Get(name)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", name, err)
			continue
		}
		declared, _ := FieldKind(name)
		if v.Kind != declared {
			t.Errorf("field %q: Get kind %s, declared %s", name, v.Kind, declared)
		}
	}
}
