// Package iofs prepares the file system locations GNmsf works with.
package iofs

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnmsf/pkg/config"
)

// ConfigYAML is the template of config.yaml written on the first run.
//
//go:embed config.yaml
var ConfigYAML string

// exampleModels are installed into an empty models directory.
//
//go:embed models
var exampleModels embed.FS

// EnsureDirs creates config, models, cache and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.ModelsDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the config.yaml template unless the file exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// EnsureModels installs example model definitions when the models
// directory has no YAML files. It returns the number of written files.
func EnsureModels(homeDir string) (int, error) {
	dir := config.ModelsDir(homeDir)
	if err := touchDir(dir); err != nil {
		return 0, err
	}

	hasModels, err := hasYAML(dir)
	if err != nil {
		return 0, ReadFileError(dir, err)
	}
	if hasModels {
		return 0, nil
	}

	var count int
	err = fs.WalkDir(exampleModels, "models",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, _ := filepath.Rel("models", filepath.FromSlash(path))
			target := filepath.Join(dir, rel)
			if err := touchDir(filepath.Dir(target)); err != nil {
				return err
			}
			data, err := exampleModels.ReadFile(path)
			if err != nil {
				return err
			}
			if err = os.WriteFile(target, data, 0644); err != nil {
				return CopyFileError(target, err)
			}
			count++
			return nil
		})
	if err != nil {
		return count, err
	}
	slog.Info("Example models installed", "dir", dir, "files", count)
	return count, nil
}

func hasYAML(dir string) (bool, error) {
	var res bool
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			res = true
			return fs.SkipAll
		}
		return nil
	})
	return res, err
}

// EnsureOutputDir creates the directory for reports.
func EnsureOutputDir(dir string) error {
	return touchDir(dir)
}
