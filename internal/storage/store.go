// Package storage keeps simulation runs on disk: one directory per run
// holding metadata.json and states.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/dynsym/internal/dynamo"
)

var ErrRunNotFound = errors.New("storage: run not found")

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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	Timestamp    time.Time          `json:"timestamp"`
	Engine       string             `json:"engine,omitempty"`
	Seed         int64              `json:"seed"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Adaptive     bool               `json:"adaptive,omitempty"`
	Integrator   string             `json:"integrator"`
	Controller   string             `json:"controller"`
	StateNames   []string           `json:"state_names"`
	ControlNames []string           `json:"control_names,omitempty"`
	Constants    map[string]float64 `json:"constants,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
	EnergyDrift  float64            `json:"energy_drift"`
	Steps        int                `json:"steps"`
}

// Run is a stored run read back from disk.
type Run struct {
	Meta     *RunMetadata
	Times    []float64
	States   [][]float64
	Controls [][]float64
}

// Save writes a run and returns its ID. ID and Timestamp in meta are
// assigned here; state and control names default to x0.. and u0...
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString())
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics
	meta.EnergyDrift = result.EnergyDrift
	meta.Steps = result.StepsTaken
	if len(result.States) > 0 && len(meta.StateNames) != len(result.States[0]) {
		meta.StateNames = indexedNames("x", len(result.States[0]))
	}
	if len(result.Controls) > 0 && len(meta.ControlNames) != len(result.Controls[0]) {
		meta.ControlNames = indexedNames("u", len(result.Controls[0]))
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeCSV(csvFile, meta, result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func indexedNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + strconv.Itoa(i)
	}
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// writeCSV writes one row per recorded state. The control applied over the
// last interval has no successor, so the final row repeats zeros.
func writeCSV(out io.Writer, meta RunMetadata, result *dynamo.Result) error {
	w := csv.NewWriter(out)

	if len(result.States) == 0 {
		w.Flush()
		return w.Error()
	}

	header := append([]string{"time"}, meta.StateNames...)
	numControls := len(meta.ControlNames)
	header = append(header, meta.ControlNames...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(result.Times[i])}
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		if i < len(result.Controls) && len(result.Controls[i]) == numControls {
			for _, val := range result.Controls[i] {
				row = append(row, formatFloat(val))
			}
		} else {
			for j := 0; j < numControls; j++ {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadRun reads metadata and the trajectory, splitting each CSV row into
// state and control columns.
func (s *Store) LoadRun(runID string) (*Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	run := &Run{Meta: meta, Times: []float64{}, States: [][]float64{}, Controls: [][]float64{}}
	if len(records) < 2 {
		return run, nil
	}

	nx := len(meta.StateNames)
	for i, record := range records[1:] {
		if len(record) < 1+nx {
			return nil, fmt.Errorf("run %s: row %d has %d fields, want at least %d", runID, i+1, len(record), 1+nx)
		}
		values := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
			values[j] = v
		}
		run.Times = append(run.Times, values[0])
		run.States = append(run.States, values[1:1+nx])
		run.Controls = append(run.Controls, values[1+nx:])
	}
	return run, nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	run, err := s.LoadRun(runID)
	if err != nil {
		return nil, nil, err
	}
	return run.States, run.Times, nil
}

// Delete removes a stored run.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
