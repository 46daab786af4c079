// Package storage persists propagation runs on the filesystem: one
// directory per run holding run metadata and the raw per-monitor
// records emitted by the propagation engine.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/output"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string    `json:"id"`
	Lattice      string    `json:"lattice"`
	Timestamp    time.Time `json:"timestamp"`
	Points       int       `json:"points"`
	ChargeStates int       `json:"charge_states"`
}

// point is the on-disk form of one monitor entry. States are stored
// raw; normalization happens on collection.
type point struct {
	Loc   string        `json:"loc"`
	State beamstate.Raw `json:"state"`
}

type runData struct {
	Points []point `json:"points"`
}

// Save stores a propagation result under a fresh run ID. Every entry
// must still hold a raw engine record; normalized results are a
// transient in-memory form and are not persisted.
func (s *Store) Save(lattice string, res output.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", lattice, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	data := runData{Points: make([]point, len(res))}
	ncs := 0
	for i, p := range res {
		raw, ok := p.State.(beamstate.Raw)
		if !ok {
			return "", fmt.Errorf("storage: point %q holds %T, want raw state", p.Loc, p.State)
		}
		data.Points[i] = point{Loc: p.Loc, State: raw}
		if i == 0 {
			ncs = raw.ChargeStates()
		}
	}

	meta := RunMetadata{
		ID:           runID,
		Lattice:      lattice,
		Timestamp:    time.Now(),
		Points:       len(res),
		ChargeStates: ncs,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "results.json"), data); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadResult reads a run's monitor entries back as a raw propagation
// result, ready for output.CollectData.
func (s *Store) LoadResult(runID string) (output.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "results.json"))
	if err != nil {
		return nil, err
	}

	var rd runData
	if err := json.Unmarshal(data, &rd); err != nil {
		return nil, err
	}

	res := make(output.Result, len(rd.Points))
	for i, p := range rd.Points {
		res[i] = output.Point{Loc: p.Loc, State: p.State}
	}
	return res, nil
}

// ImportResult reads a propagation result from a standalone JSON file,
// as written by the engine's result dump.
func ImportResult(path string) (output.Result, string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("read results: %w", err)
	}

	var dump struct {
		Lattice string  `json:"lattice"`
		Points  []point `json:"points"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, "", fmt.Errorf("unmarshal results: %w", err)
	}

	res := make(output.Result, len(dump.Points))
	for i, p := range dump.Points {
		res[i] = output.Point{Loc: p.Loc, State: p.State}
	}

	lattice := dump.Lattice
	if lattice == "" {
		lattice = "run"
	}
	return res, lattice, nil
}
