package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/sim"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Start     time.Time          `json:"start"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Bodies    []string           `json:"bodies"`
	Parents   []string           `json:"parents"`
	Failures  int                `json:"failures"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Positions is a run's world positions as read back from disk.
type Positions struct {
	Bodies  []string
	Offsets []float64
	Values  [][]orbit.Vec3
}

// Save writes metadata.json and positions.csv into a new run directory. The
// CSV holds one row per step: seconds since start, then x, y, z per body.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: now,
		Start:     cfg.Start,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Bodies:    result.Bodies,
		Parents:   result.Parents,
		Failures:  len(result.Errors),
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writePositions(filepath.Join(runDir, "positions.csv"), cfg.Start, result); err != nil {
		return "", err
	}
	return runID, nil
}

func writePositions(path string, start time.Time, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for _, name := range result.Bodies {
		header = append(header, name+"_x", name+"_y", name+"_z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range result.Positions {
		rec := make([]string, 0, 1+3*len(row))
		rec = append(rec, strconv.FormatFloat(result.Times[i].Sub(start).Seconds(), 'f', 3, 64))
		for _, p := range row {
			rec = append(rec,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Z, 'f', 6, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
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

// LoadPositions reads positions.csv back. Body names come from the header.
func (s *Store) LoadPositions(runID string) (*Positions, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: %s: empty positions file", runID)
	}

	header := records[0]
	if len(header) < 1 || (len(header)-1)%3 != 0 {
		return nil, fmt.Errorf("storage: %s: malformed header", runID)
	}

	out := &Positions{}
	for j := 1; j < len(header); j += 3 {
		name := header[j]
		out.Bodies = append(out.Bodies, name[:len(name)-2])
	}

	for i := 1; i < len(records); i++ {
		rec := records[i]
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s: row %d: %w", runID, i, err)
			}
			vals[j] = v
		}
		row := make([]orbit.Vec3, 0, len(out.Bodies))
		for j := 1; j+2 < len(vals); j += 3 {
			row = append(row, orbit.Vec3{X: vals[j], Y: vals[j+1], Z: vals[j+2]})
		}
		out.Offsets = append(out.Offsets, vals[0])
		out.Values = append(out.Values, row)
	}

	return out, nil
}
