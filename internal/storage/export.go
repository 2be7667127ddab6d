package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

type ExportData struct {
	*RunMetadata
	Times    []float64   `json:"times"`
	States   [][]float64 `json:"states"`
	Controls [][]float64 `json:"controls"`
}

// ExportJSON writes a stored run, metadata and trajectory, as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	run, err := s.LoadRun(runID)
	if err != nil {
		return err
	}
	data := ExportData{
		RunMetadata: run.Meta,
		Times:       run.Times,
		States:      run.States,
		Controls:    run.Controls,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies the stored states.csv of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
