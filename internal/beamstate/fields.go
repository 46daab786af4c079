package beamstate

import (
	"fmt"
	"sort"
)

// Kind discriminates the numeric payload of a Value.
type Kind int

const (
	KindScalar Kind = iota
	KindVector
	KindMatrix
	KindTensor
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindTensor:
		return "tensor"
	default:
		return "unknown"
	}
}

// Value is one extracted beam quantity. Exactly one payload field is
// populated, selected by Kind.
type Value struct {
	Kind   Kind
	Scalar float64
	Vector []float64
	Matrix [][]float64
	Tensor [][][]float64
}

func scalar(v float64) Value     { return Value{Kind: KindScalar, Scalar: v} }
func vector(v []float64) Value   { return Value{Kind: KindVector, Vector: v} }
func matrix(v [][]float64) Value { return Value{Kind: KindMatrix, Matrix: v} }

// aliases maps the FLAME-era field names onto the canonical vocabulary.
var aliases = map[string]string{
	"xcen_all":       "x0",
	"ycen_all":       "y0",
	"xpcen_all":      "xp0",
	"ypcen_all":      "yp0",
	"phicen_all":     "phi0",
	"dEkcen_all":     "dEk0",
	"xcen":           "x0_env",
	"ycen":           "y0_env",
	"xpcen":          "xp0_env",
	"ypcen":          "yp0_env",
	"phicen":         "phi0_env",
	"dEkcen":         "dEk0_env",
	"xrms":           "x0_rms",
	"yrms":           "y0_rms",
	"xprms":          "xp0_rms",
	"yprms":          "yp0_rms",
	"phirms":         "phi0_rms",
	"dEkrms":         "dEk0_rms",
	"cenvector":      "moment0_env",
	"cenvector_all":  "moment0",
	"rmsvector":      "moment0_rms",
	"beammatrix":     "moment1_env",
	"beammatrix_all": "moment1",
}

// fieldKinds is the closed canonical vocabulary and the payload kind of
// each quantity. Field access never falls back to reflection; a name
// missing here is unknown.
var fieldKinds = map[string]Kind{
	"pos":            KindScalar,
	"ref_IonZ":       KindScalar,
	"ref_IonEs":      KindScalar,
	"ref_IonEk":      KindScalar,
	"ref_IonW":       KindScalar,
	"ref_IonQ":       KindScalar,
	"ref_phis":       KindScalar,
	"ref_beta":       KindScalar,
	"ref_gamma":      KindScalar,
	"ref_bg":         KindScalar,
	"ref_SampleIonK": KindScalar,
	"IonZ":           KindVector,
	"IonQ":           KindVector,
	"IonEs":          KindVector,
	"IonEk":          KindVector,
	"IonW":           KindVector,
	"phis":           KindVector,
	"beta":           KindVector,
	"gamma":          KindVector,
	"bg":             KindVector,
	"SampleIonK":     KindVector,
	"x0":             KindVector,
	"xp0":            KindVector,
	"y0":             KindVector,
	"yp0":            KindVector,
	"phi0":           KindVector,
	"dEk0":           KindVector,
	"x0_env":         KindScalar,
	"xp0_env":        KindScalar,
	"y0_env":         KindScalar,
	"yp0_env":        KindScalar,
	"phi0_env":       KindScalar,
	"dEk0_env":       KindScalar,
	"x0_rms":         KindScalar,
	"xp0_rms":        KindScalar,
	"y0_rms":         KindScalar,
	"yp0_rms":        KindScalar,
	"phi0_rms":       KindScalar,
	"dEk0_rms":       KindScalar,
	"xrms_all":       KindVector,
	"xprms_all":      KindVector,
	"yrms_all":       KindVector,
	"yprms_all":      KindVector,
	"phirms_all":     KindVector,
	"dEkrms_all":     KindVector,
	"moment0":        KindMatrix,
	"moment0_env":    KindVector,
	"moment0_rms":    KindVector,
	"moment1":        KindTensor,
	"moment1_env":    KindMatrix,
}

// Canonical resolves an alias to its canonical field name. Unknown names
// pass through unchanged.
func Canonical(name string) string {
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}

// IsField reports whether name (canonical or alias) is in the
// vocabulary.
func IsField(name string) bool {
	_, ok := fieldKinds[Canonical(name)]
	return ok
}

// FieldKind returns the payload kind of a vocabulary field.
func FieldKind(name string) (Kind, bool) {
	k, ok := fieldKinds[Canonical(name)]
	return k, ok
}

// Fields returns the canonical vocabulary, sorted.
func Fields() []string {
	out := make([]string, 0, len(fieldKinds))
	for name := range fieldKinds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Get extracts the named quantity from the state. Aliases are accepted.
// A name outside the vocabulary yields an error wrapping
// ErrUnknownField.
func (s *BeamState) Get(name string) (Value, error) {
	switch Canonical(name) {
	case "pos":
		return scalar(s.Pos), nil
	case "ref_IonZ":
		return scalar(s.RefIonZ), nil
	case "ref_IonEs":
		return scalar(s.RefIonEs), nil
	case "ref_IonEk":
		return scalar(s.RefIonEk), nil
	case "ref_IonW":
		return scalar(s.RefIonW), nil
	case "ref_IonQ":
		return scalar(s.RefIonQ), nil
	case "ref_phis":
		return scalar(s.RefPhis), nil
	case "ref_beta":
		return scalar(s.RefBeta), nil
	case "ref_gamma":
		return scalar(s.RefGamma), nil
	case "ref_bg":
		return scalar(s.RefBG), nil
	case "ref_SampleIonK":
		return scalar(s.RefSampleIonK), nil
	case "IonZ":
		return vector(s.IonZ), nil
	case "IonQ":
		return vector(s.IonQ), nil
	case "IonEs":
		return vector(s.IonEs), nil
	case "IonEk":
		return vector(s.IonEk), nil
	case "IonW":
		return vector(s.IonW), nil
	case "phis":
		return vector(s.Phis), nil
	case "beta":
		return vector(s.Beta), nil
	case "gamma":
		return vector(s.Gamma), nil
	case "bg":
		return vector(s.BG), nil
	case "SampleIonK":
		return vector(s.SampleIonK), nil
	case "x0":
		return vector(s.centroidRow(IdxX)), nil
	case "xp0":
		return vector(s.centroidRow(IdxXP)), nil
	case "y0":
		return vector(s.centroidRow(IdxY)), nil
	case "yp0":
		return vector(s.centroidRow(IdxYP)), nil
	case "phi0":
		return vector(s.centroidRow(IdxPhi)), nil
	case "dEk0":
		return vector(s.centroidRow(IdxDEk)), nil
	case "x0_env":
		return scalar(s.Moment0Env[IdxX]), nil
	case "xp0_env":
		return scalar(s.Moment0Env[IdxXP]), nil
	case "y0_env":
		return scalar(s.Moment0Env[IdxY]), nil
	case "yp0_env":
		return scalar(s.Moment0Env[IdxYP]), nil
	case "phi0_env":
		return scalar(s.Moment0Env[IdxPhi]), nil
	case "dEk0_env":
		return scalar(s.Moment0Env[IdxDEk]), nil
	case "x0_rms":
		return scalar(s.Moment0RMS[IdxX]), nil
	case "xp0_rms":
		return scalar(s.Moment0RMS[IdxXP]), nil
	case "y0_rms":
		return scalar(s.Moment0RMS[IdxY]), nil
	case "yp0_rms":
		return scalar(s.Moment0RMS[IdxYP]), nil
	case "phi0_rms":
		return scalar(s.Moment0RMS[IdxPhi]), nil
	case "dEk0_rms":
		return scalar(s.Moment0RMS[IdxDEk]), nil
	case "xrms_all":
		return vector(s.rmsRow(IdxX)), nil
	case "xprms_all":
		return vector(s.rmsRow(IdxXP)), nil
	case "yrms_all":
		return vector(s.rmsRow(IdxY)), nil
	case "yprms_all":
		return vector(s.rmsRow(IdxYP)), nil
	case "phirms_all":
		return vector(s.rmsRow(IdxPhi)), nil
	case "dEkrms_all":
		return vector(s.rmsRow(IdxDEk)), nil
	case "moment0":
		return matrix(s.Moment0), nil
	case "moment0_env":
		return vector(s.Moment0Env), nil
	case "moment0_rms":
		return vector(s.Moment0RMS), nil
	case "moment1":
		return Value{Kind: KindTensor, Tensor: s.Moment1}, nil
	case "moment1_env":
		return matrix(s.Moment1Env), nil
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}
