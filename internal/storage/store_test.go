package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/output"
)

func testRaw(pos float64) beamstate.Raw {
	m0 := [][]float64{make([]float64, beamstate.PSDim)}
	m0[0][beamstate.IdxX] = pos * 2
	m1 := [][][]float64{make([][]float64, beamstate.PSDim)}
	for j := range m1[0] {
		m1[0][j] = make([]float64, beamstate.PSDim)
	}
	m1[0][beamstate.IdxX][beamstate.IdxX] = 1
	return beamstate.Raw{
		Pos:      pos,
		RefIonEs: 931.49432e6,
		RefIonEk: 500e3,
		IonZ:     []float64{0.14},
		IonQ:     []float64{1},
		IonEs:    []float64{931.49432e6},
		IonEk:    []float64{500e3},
		Phis:     []float64{0},
		Moment0:  m0,
		Moment1:  m1,
	}
}

func testResult() output.Result {
	return output.Result{
		{Loc: "m1", State: testRaw(0.0)},
		{Loc: "m2", State: testRaw(0.5)},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save("frib_linac", testResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, "frib_linac", meta.Lattice)
	require.Equal(t, 2, meta.Points)
	require.Equal(t, 1, meta.ChargeStates)

	res, err := st.LoadResult(runID)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, "m2", res[1].Loc)

	raw, ok := res[1].State.(beamstate.Raw)
	require.True(t, ok, "loaded states must be raw")
	require.Equal(t, 0.5, raw.Pos)
	require.Equal(t, 1.0, raw.Moment0[0][beamstate.IdxX])
}

func TestStoreSaveRejectsNormalized(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	bs, err := beamstate.New(testRaw(0))
	require.NoError(t, err)

	_, err = st.Save("frib_linac", output.Result{{Loc: "m1", State: bs}})
	require.Error(t, err)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	_, err = st.Save("frib_linac", testResult())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, err := st.Save("frib_linac", testResult())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, runID, "metadata.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, runID, "results.json"))
	require.NoError(t, err)
}

func TestImportResult(t *testing.T) {
	dump := struct {
		Lattice string  `json:"lattice"`
		Points  []point `json:"points"`
	}{
		Lattice: "frib_linac",
		Points: []point{
			{Loc: "m1", State: testRaw(0.0)},
			{Loc: "m2", State: testRaw(0.5)},
		},
	}

	data, err := json.Marshal(dump)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	res, lattice, err := ImportResult(path)
	require.NoError(t, err)
	require.Equal(t, "frib_linac", lattice)
	require.Len(t, res, 2)
	require.Equal(t, "m1", res[0].Loc)
}

func TestExportCSV(t *testing.T) {
	res := testResult()

	data, err := output.CollectData(res, "pos", "x0")
	require.NoError(t, err)

	locs := []string{"m1", "m2"}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportCSV(path, locs, []string{"pos", "x0"}, data))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "loc,pos,x0[0]", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "m1,"))
	require.True(t, strings.HasPrefix(lines[2], "m2,"))
}

func TestExportCSVRejectsTensors(t *testing.T) {
	res := testResult()

	data, err := output.CollectData(res, "moment1")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	err = ExportCSV(path, []string{"m1", "m2"}, []string{"moment1"}, data)
	require.Error(t, err)
}
