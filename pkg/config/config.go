// Package config provides configuration management for GNmsf.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Search: min_profile_coverage, max_candidates, max_swap_rounds,
//     default_topology
//   - Weights: mandatory, accessory, neutral, itself, exchangeable,
//     loner_multi_system
//   - Output: dir, format, store, metrics_file
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - General: models_dir, jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Input.HitsPath, TopologyPath, ModelsPath, ModelIDs (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNMSF_ prefix with underscores for nesting:
//
//	GNMSF_SEARCH_MAX_CANDIDATES=5000
//	GNMSF_OUTPUT_STORE=sqlite
//	GNMSF_DATABASE_HOST=localhost
//	GNMSF_LOG_LEVEL=info
//	GNMSF_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNmsf configuration.
type Config struct {
	// Search contains settings of the assembly engine.
	Search SearchConfig `mapstructure:"search" yaml:"search"`

	// Weights scale hit scores by the role they fulfill.
	Weights WeightsConfig `mapstructure:"weights" yaml:"weights"`

	// Output describes reports, result stores and metrics.
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Database contains PostgreSQL connection settings for the postgres
	// store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Input contains the files of a search. Runtime only.
	Input InputConfig `mapstructure:"input" yaml:"input"`

	// ModelsDir is where model definitions are looked for when no models
	// path is given. Empty means the models directory inside the config
	// directory.
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir"`

	// JobsNumber is the number of replicons processed concurrently.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// SearchConfig contains settings of the assembly engine.
type SearchConfig struct {
	// MinProfileCoverage drops hits covering less of their profile.
	MinProfileCoverage float64 `mapstructure:"min_profile_coverage" yaml:"min_profile_coverage"`

	// MaxCandidates bounds the candidates of one model on one replicon.
	// Zero means no bound.
	MaxCandidates int `mapstructure:"max_candidates" yaml:"max_candidates"`

	// MaxSwapRounds caps the local exchange rounds of conflict resolution.
	MaxSwapRounds int `mapstructure:"max_swap_rounds" yaml:"max_swap_rounds"`

	// DefaultTopology is used for replicons absent from the topology file.
	// Valid values: "linear", "circular".
	DefaultTopology string `mapstructure:"default_topology" yaml:"default_topology"`
}

// WeightsConfig keeps the scoring weights.
type WeightsConfig struct {
	Mandatory        float64 `mapstructure:"mandatory" yaml:"mandatory"`
	Accessory        float64 `mapstructure:"accessory" yaml:"accessory"`
	Neutral          float64 `mapstructure:"neutral" yaml:"neutral"`
	Itself           float64 `mapstructure:"itself" yaml:"itself"`
	Exchangeable     float64 `mapstructure:"exchangeable" yaml:"exchangeable"`
	LonerMultiSystem float64 `mapstructure:"loner_multi_system" yaml:"loner_multi_system"`
}

// OutputConfig describes where results go.
type OutputConfig struct {
	// Dir is the directory for reports.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Format of reports. Valid values: "json", "tsv", "all".
	Format string `mapstructure:"format" yaml:"format"`

	// Store saves results to a database as well.
	// Valid values: "none", "sqlite", "postgres".
	Store string `mapstructure:"store" yaml:"store"`

	// MetricsFile is a Prometheus text file with run metrics. Empty means
	// no metrics.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows sent to a store at once.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// InputConfig contains the files of one search.
type InputConfig struct {
	// HitsPath is the hit table.
	HitsPath string `mapstructure:"hits_path" yaml:"hits_path"`

	// TopologyPath is an optional replicon topology table.
	TopologyPath string `mapstructure:"topology_path" yaml:"topology_path"`

	// ModelsPath is a model definition file or a directory of them.
	ModelsPath string `mapstructure:"models_path" yaml:"models_path"`

	// ModelIDs restricts the search to some models or model families.
	// Empty slice means all models.
	ModelIDs []string `mapstructure:"model_ids" yaml:"model_ids"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Search: SearchConfig{
			MinProfileCoverage: 0.5,
			MaxCandidates:      10_000,
			MaxSwapRounds:      64,
			DefaultTopology:    "linear",
		},
		Weights: WeightsConfig{
			Mandatory:        1.0,
			Accessory:        0.5,
			Neutral:          0.0,
			Itself:           1.0,
			Exchangeable:     0.8,
			LonerMultiSystem: 0.7,
		},
		Output: OutputConfig{
			Dir:    "gnmsf-results",
			Format: "all",
			Store:  "none",
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnmsf",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
