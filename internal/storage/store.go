// Package storage records runs to disk: a metadata.json describing the run
// and a states.csv holding one row per recorded frame. Recordings are
// traces for plotting and inspection; they are never loaded back into a
// World.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Linux0Hat/physicium/internal/metrics"
	"github.com/Linux0Hat/physicium/internal/physics"
)

var ErrInvalidRunID = errors.New("storage: invalid run id")

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
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
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	FrameMs    float64            `json:"frame_ms"`
	Duration   float64            `json:"duration"`
	Frames     int                `json:"frames"`
	Bodies     int                `json:"bodies"`
	Broadphase string             `json:"broadphase"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Recorder streams frames of one run into its states.csv. Close writes the
// metadata; a run without metadata is not listed.
type Recorder struct {
	dir    string
	meta   RunMetadata
	file   *os.File
	w      *csv.Writer
	bodies int
}

// Create starts a new run. meta.ID and meta.Timestamp are assigned here.
func (s *Store) Create(meta RunMetadata) (*Recorder, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now().UTC()

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(dir, statesFile))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		dir:    dir,
		meta:   meta,
		file:   f,
		w:      csv.NewWriter(f),
		bodies: -1,
	}, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

func header(bodies int) []string {
	h := []string{"time", "kinetic", "potential", "px", "py"}
	for i := 0; i < bodies; i++ {
		h = append(h,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i))
	}
	return h
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Record appends a frame. The body count is fixed by the first frame.
func (r *Recorder) Record(snap physics.Snapshot) error {
	if r.bodies < 0 {
		r.bodies = len(snap.Bodies)
		if err := r.w.Write(header(r.bodies)); err != nil {
			return err
		}
	}
	if len(snap.Bodies) != r.bodies {
		return fmt.Errorf("frame has %d bodies, run has %d", len(snap.Bodies), r.bodies)
	}

	p := metrics.Momentum(snap)
	row := make([]string, 0, 5+4*r.bodies)
	row = append(row,
		format(snap.Time),
		format(metrics.KineticEnergy(snap)),
		format(metrics.PotentialEnergy(snap)),
		format(p.X), format(p.Y))
	for _, b := range snap.Bodies {
		row = append(row,
			format(b.Position.X), format(b.Position.Y),
			format(b.Velocity.X), format(b.Velocity.Y))
	}
	if err := r.w.Write(row); err != nil {
		return err
	}
	r.meta.Frames++
	return nil
}

// Close flushes the states and writes metadata.json with the final metric
// values.
func (r *Recorder) Close(final map[string]float64) (RunMetadata, error) {
	r.w.Flush()
	err := r.w.Error()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return r.meta, err
	}

	if r.bodies > 0 {
		r.meta.Bodies = r.bodies
	}
	r.meta.Metrics = final

	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return r.meta, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.meta); err != nil {
		return r.meta, err
	}
	return r.meta, nil
}

// Discard closes the states file and removes the run directory. Use it
// when a run fails before any frame worth keeping.
func (r *Recorder) Discard() error {
	r.w.Flush()
	err := r.file.Close()
	if rerr := os.RemoveAll(r.dir); err == nil {
		err = rerr
	}
	return err
}

// List returns all complete runs, newest first.
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

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("%q: %w", runID, ErrInvalidRunID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Series is the columnar content of a states.csv.
type Series struct {
	Header []string
	Rows   [][]float64
}

// Column returns the values of the named column, or nil if it does not
// exist.
func (s *Series) Column(name string) []float64 {
	idx := slices.Index(s.Header, name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, 0, len(s.Rows))
	for _, row := range s.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) == 0 {
		return series, nil
	}
	series.Header = records[0]
	series.Rows = make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", statesFile, err)
			}
			row = append(row, val)
		}
		series.Rows = append(series.Rows, row)
	}

	return series, nil
}
