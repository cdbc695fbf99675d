// Package ioreport writes search results as JSON and TSV files.
package ioreport

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/engine"
)

// Report file names.
const (
	SystemsJSON = "systems.json"
	SystemsTSV  = "systems.tsv"
	RejectedTSV = "rejected.tsv"
)

// Writer writes reports of one run into a directory.
type Writer struct {
	dir    string
	format string
}

// New creates a Writer from output settings.
func New(cfg config.OutputConfig) *Writer {
	return &Writer{dir: cfg.Dir, format: cfg.Format}
}

// document is the content of systems.json.
type document struct {
	RunID       string              `json:"run_id,omitempty"`
	Occurrences []engine.Occurrence `json:"systems"`
	Stats       engine.Stats        `json:"stats"`
}

// Write saves the reports required by the format setting and returns the
// paths of written files.
func (w *Writer) Write(runID string, res *engine.Result) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, WriteError(w.dir, err)
	}

	var paths []string
	if w.format == "json" || w.format == "all" {
		path := filepath.Join(w.dir, SystemsJSON)
		doc := document{
			RunID:       runID,
			Occurrences: res.Occurrences,
			Stats:       res.Stats,
		}
		if err := writeJSON(path, doc); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if w.format == "tsv" || w.format == "all" {
		path := filepath.Join(w.dir, SystemsTSV)
		if err := writeTSV(path, func(cw *csv.Writer) error {
			return SystemsTable(cw, res.Occurrences)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	path := filepath.Join(w.dir, RejectedTSV)
	if err := writeTSV(path, func(cw *csv.Writer) error {
		return DiagnosticsTable(cw, res.Diagnostics)
	}); err != nil {
		return paths, err
	}
	paths = append(paths, path)

	slog.Info("Reports written", "dir", w.dir, "files", len(paths))
	return paths, nil
}

func writeJSON(path string, doc document) error {
	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(doc)
	if err != nil {
		return WriteError(path, err)
	}
	data = append(data, '\n')
	if err = os.WriteFile(path, data, 0644); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func writeTSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}
	defer f.Close()

	cw := NewTSVWriter(f)
	if err = fill(cw); err != nil {
		return WriteError(path, err)
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return WriteError(path, err)
	}
	if err = f.Close(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

// NewTSVWriter returns a csv.Writer that separates fields with tabs.
func NewTSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
