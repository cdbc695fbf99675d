/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/internal/iofs"
	"github.com/gnames/gnmsf/internal/iologger"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/gnmsf"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

// getRootCmd returns the root command. A new instance is created on every
// call, so tests do not share flag state.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", gnmsf.Version, gnmsf.Build),
		Use:     "gnmsf",
		Short:   "GNmsf finds macromolecular systems in annotated genomes",
		Long: `GNmsf detects macromolecular systems (secretion systems, CRISPR-Cas
and other multi-gene machines) in replicons. It takes a table of
similarity-search hits and a set of system models, clusters hits along each
replicon, matches clusters against gene roles and quorum rules, and selects
the best set of non-conflicting systems.

Commands:
  - search: Find systems described by models in a hit table
  - models: List and check model definitions

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNMSF_*), also read from a .env file
  3. Config file (~/.config/gnmsf/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (search.max_candidates →
  GNMSF_SEARCH_MAX_CANDIDATES).

  Examples:
    GNMSF_SEARCH_MIN_PROFILE_COVERAGE   Minimal profile coverage of hits
    GNMSF_OUTPUT_STORE                  none, sqlite or postgres
    GNMSF_DATABASE_HOST                 PostgreSQL host
    GNMSF_LOG_LEVEL                     Log level (debug/info/warn/error)
    GNMSF_JOBS_NUMBER                   Replicons processed concurrently

  See 'go doc github.com/gnames/gnmsf/pkg/config' for complete list.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnmsf version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnmsf")

	rootCmd.AddCommand(getSearchCmd())
	rootCmd.AddCommand(getModelsCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error

	// .env is optional
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Cannot read .env file", "error", err)
	}

	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if logCloser, err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if _, err = iofs.EnsureModels(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// The bootstrap log file is appended to, not truncated.
func reconfigureLogging(cfg *config.Config) error {
	closeLog()
	logDir := config.LogDir(cfg.HomeDir)
	var err error
	logCloser, err = iologger.Init(logDir, cfg.Log, true)
	return err
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// Single-argument BindEnv adds the GNMSF_ prefix to the key.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Search configuration
	v.BindEnv("search.min_profile_coverage")
	v.BindEnv("search.max_candidates")
	v.BindEnv("search.max_swap_rounds")
	v.BindEnv("search.default_topology")

	// Weights configuration
	v.BindEnv("weights.mandatory")
	v.BindEnv("weights.accessory")
	v.BindEnv("weights.neutral")
	v.BindEnv("weights.itself")
	v.BindEnv("weights.exchangeable")
	v.BindEnv("weights.loner_multi_system")

	// Output configuration
	v.BindEnv("output.dir")
	v.BindEnv("output.format")
	v.BindEnv("output.store")
	v.BindEnv("output.metrics_file")

	// Database configuration
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.database")
	v.BindEnv("database.ssl_mode")
	v.BindEnv("database.batch_size")

	// Log configuration
	v.BindEnv("log.level")
	v.BindEnv("log.format")
	v.BindEnv("log.destination")

	// General configuration
	v.BindEnv("models_dir")
	v.BindEnv("jobs_number")

	v.AutomaticEnv()
}
