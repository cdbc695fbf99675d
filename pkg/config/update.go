package config

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Input).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	res := []Option{
		OptSearchMinProfileCoverage(c.Search.MinProfileCoverage),
		OptSearchMaxCandidates(c.Search.MaxCandidates),
		OptSearchMaxSwapRounds(c.Search.MaxSwapRounds),
		OptWeightsMandatory(c.Weights.Mandatory),
		OptWeightsAccessory(c.Weights.Accessory),
		OptWeightsNeutral(c.Weights.Neutral),
		OptWeightsItself(c.Weights.Itself),
		OptWeightsExchangeable(c.Weights.Exchangeable),
		OptWeightsLonerMultiSystem(c.Weights.LonerMultiSystem),
	}
	var s string
	var i int

	s = c.Search.DefaultTopology
	if s != "" {
		res = append(res, OptSearchDefaultTopology(s))
	}

	s = c.Output.Dir
	if s != "" {
		res = append(res, OptOutputDir(s))
	}
	s = c.Output.Format
	if s != "" {
		res = append(res, OptOutputFormat(s))
	}
	s = c.Output.Store
	if s != "" {
		res = append(res, OptOutputStore(s))
	}
	s = c.Output.MetricsFile
	if s != "" {
		res = append(res, OptOutputMetricsFile(s))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	s = c.ModelsDir
	if s != "" {
		res = append(res, OptModelsDir(s))
	}
	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidNonNegative(name string, i int) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidFraction(name string, f float64) bool {
	res := !math.IsNaN(f) && f >= 0 && f <= 1
	if !res {
		gn.Warn("<em>%s</em> has to be between 0 and 1, ignoring %v", name, f)
	}
	return res
}

func isValidWeight(name string, f float64) bool {
	res := !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
	if !res {
		gn.Warn("<em>%s</em> has to be a non-negative number, ignoring %v",
			name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":              {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":             {"json": s, "text": s, "tint": s},
		"Log.Destination":        {"file": s, "stderr": s, "stdout": s},
		"Output.Format":          {"json": s, "tsv": s, "all": s},
		"Output.Store":           {"none": s, "sqlite": s, "postgres": s},
		"Search.DefaultTopology": {"linear": s, "circular": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
