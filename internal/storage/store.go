package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/coolsim/internal/cooling"
)

const (
	metadataFile = "metadata.json"
	curveFile    = "curve.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Initial      float64   `json:"initial"`
	Ambient      float64   `json:"ambient"`
	ObservedTemp *float64  `json:"observed_temperature,omitempty"`
	ObservedTime *float64  `json:"observed_time,omitempty"`
	Rate         float64   `json:"k"`
	HalfLife     *float64  `json:"half_life,omitempty"`
	Minutes      float64   `json:"minutes"`
	Samples      int       `json:"samples"`
}

// Save writes the run's metadata and sampled curve into a new run directory
// and returns its id.
func (s *Store) Save(body *cooling.Body, k float64, curve []cooling.Point) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: s.now().UTC(),
		Initial:   body.Initial,
		Ambient:   body.Ambient,
		Rate:      k,
		Samples:   len(curve),
	}
	// k <= 0 never halves; JSON has no infinity.
	if hl := cooling.HalfLife(k); !math.IsInf(hl, 0) {
		meta.HalfLife = &hl
	}
	if obs := body.Observation; obs != nil {
		meta.ObservedTemp = &obs.Temperature
		meta.ObservedTime = &obs.Time
	}
	if len(curve) > 0 {
		meta.Minutes = curve[len(curve)-1].Time
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCurve(filepath.Join(runDir, curveFile), curve); err != nil {
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

func writeCurve(path string, curve []cooling.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "temperature"}); err != nil {
		return err
	}
	for _, p := range curve {
		row := []string{
			strconv.FormatFloat(p.Time, 'f', 6, 64),
			strconv.FormatFloat(p.Temperature, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all runs, newest first. A missing base directory is empty.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadCurve(runID string) ([]cooling.Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, curveFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []cooling.Point{}, nil
	}

	curve := make([]cooling.Point, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("storage: %s line %d: expected 2 fields, got %d", runID, i+2, len(record))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", runID, i+2, err)
		}
		temp, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", runID, i+2, err)
		}
		curve = append(curve, cooling.Point{Time: t, Temperature: temp})
	}
	return curve, nil
}
