// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gnames/gnmsf/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnmsf_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Home and output directories live in a temporary directory that is
// removed when the test finishes. PostgreSQL settings can be changed with
// GNMSF_DATABASE_HOST, GNMSF_DATABASE_PORT, GNMSF_DATABASE_USER and
// GNMSF_DATABASE_PASSWORD, but the database name is always
// TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig(t)
//	    // ... use cfg for search or store operations
//	}
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	opts := []config.Option{
		config.OptHomeDir(dir),
		config.OptOutputDir(filepath.Join(dir, "out")),
	}

	if host := os.Getenv("GNMSF_DATABASE_HOST"); host != "" {
		opts = append(opts, config.OptDatabaseHost(host))
	}
	if port, err := strconv.Atoi(os.Getenv("GNMSF_DATABASE_PORT")); err == nil {
		opts = append(opts, config.OptDatabasePort(port))
	}
	if user := os.Getenv("GNMSF_DATABASE_USER"); user != "" {
		opts = append(opts, config.OptDatabaseUser(user))
	}
	if pass := os.Getenv("GNMSF_DATABASE_PASSWORD"); pass != "" {
		opts = append(opts, config.OptDatabasePassword(pass))
	}

	cfg := config.New()
	cfg.Update(opts)

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// WriteFile writes content to a file in the directory and returns its path.
// The test fails if the file cannot be written.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
