// Package iomodels reads system model definitions from YAML files.
package iomodels

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gnames/gnmsf/pkg/ent/model"
	"gopkg.in/yaml.v3"
)

type iomodels struct {
	path string
}

// New creates a loader for a single YAML file or for a directory tree of
// *.yaml and *.yml files.
func New(path string) model.Loader {
	res := iomodels{path: path}
	return &res
}

// Load reads all definitions found at the loader's path. Files are read in
// lexical order, so the order of definitions is stable.
func (l *iomodels) Load() ([]model.Model, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, ReadError(l.path, err)
	}

	if !info.IsDir() {
		return loadFile(l.path, "")
	}

	files, err := yamlFiles(l.path)
	if err != nil {
		return nil, ReadError(l.path, err)
	}
	if len(files) == 0 {
		return nil, NoDefinitionsError(l.path)
	}

	var res []model.Model
	for _, f := range files {
		rel, _ := filepath.Rel(l.path, f)
		ms, err := loadFile(f, familyID(rel))
		if err != nil {
			return nil, err
		}
		res = append(res, ms...)
	}
	slog.Debug("Loaded model definitions",
		"path", l.path, "files", len(files), "models", len(res))
	return res, nil
}

func yamlFiles(root string) ([]string, error) {
	var res []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			res = append(res, path)
		}
		return nil
	})
	slices.Sort(res)
	return res, err
}

// familyID turns "TXSS/T2SS.yaml" into "TXSS/T2SS".
func familyID(rel string) string {
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel)
}

func loadFile(path, defaultID string) ([]model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}

	var doc modelsYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err = dec.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ReadError(path, err)
	}

	res := make([]model.Model, 0, len(doc.Models))
	for i, m := range doc.Models {
		if m.ID == "" && len(doc.Models) == 1 {
			m.ID = defaultID
		}
		if m.ID == "" {
			slog.Warn("Model definition without id",
				"file", path, "index", i)
		}
		res = append(res, m.toModel())
	}
	return res, nil
}
