package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/fractal/internal/field"
	"github.com/san-kum/fractal/internal/raster"
)

const (
	metadataFile = "metadata.json"
	imageFile    = "render.png"
	countsFile   = "counts.csv"
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
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Viewport  field.Viewport     `json:"viewport"`
	Backend   string             `json:"backend"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is everything needed to persist one render.
type Run struct {
	Preset  string
	Field   *field.Field
	Image   image.Image
	Elapsed time.Duration
	Metrics map[string]float64
}

func (s *Store) Save(run Run) (string, error) {
	if run.Field == nil || !run.Field.Computed() {
		return "", fmt.Errorf("save: field has not been computed")
	}

	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    run.Preset,
		Timestamp: time.Now(),
		Width:     run.Field.Width(),
		Height:    run.Field.Height(),
		Viewport:  run.Field.Viewport(),
		Backend:   run.Field.Backend().Name(),
		Elapsed:   run.Elapsed,
		Metrics:   run.Metrics,
	}

	if err := writeRun(runDir, meta, run); err != nil {
		// A partial run would be skipped by List forever.
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, run Run) error {
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeCounts(filepath.Join(runDir, countsFile), run.Field); err != nil {
		return err
	}
	if run.Image != nil {
		if err := raster.WriteFile(filepath.Join(runDir, imageFile), run.Image); err != nil {
			return err
		}
	}
	return nil
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

// writeCounts stores the grid as CSV, one row of the field per line.
func writeCounts(path string, f *field.Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	counts := f.Counts()
	row := make([]string, f.Width())
	for y := 0; y < f.Height(); y++ {
		for x := range row {
			row[x] = strconv.Itoa(int(counts[y*f.Width()+x]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadCounts reads back the grid written by Save, row-major.
func (s *Store) LoadCounts(runID string) ([]uint16, int, int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, countsFile))
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records) == 0 {
		return []uint16{}, 0, 0, nil
	}

	width, height := len(records[0]), len(records)
	counts := make([]uint16, 0, width*height)
	for y, record := range records {
		for x, cell := range record {
			k, err := strconv.ParseUint(cell, 10, 16)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("counts row %d col %d: %w", y, x, err)
			}
			counts = append(counts, uint16(k))
		}
	}
	return counts, width, height, nil
}

func (s *Store) ImagePath(runID string) string {
	return filepath.Join(s.baseDir, runID, imageFile)
}
