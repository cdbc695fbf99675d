package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptSearchMinProfileCoverage sets the minimal fraction of a profile a hit
// has to cover. Valid values are in [0, 1].
func OptSearchMinProfileCoverage(f float64) Option {
	return func(c *Config) {
		if isValidFraction("Search.MinProfileCoverage", f) {
			c.Search.MinProfileCoverage = f
		}
	}
}

// OptSearchMaxCandidates sets the bound of candidates per model and
// replicon. Zero removes the bound.
func OptSearchMaxCandidates(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Search.MaxCandidates", i) {
			c.Search.MaxCandidates = i
		}
	}
}

// OptSearchMaxSwapRounds sets the cap of local exchange rounds. Zero
// disables local exchange.
func OptSearchMaxSwapRounds(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Search.MaxSwapRounds", i) {
			c.Search.MaxSwapRounds = i
		}
	}
}

// OptSearchDefaultTopology sets the topology of replicons not listed in a
// topology file. Valid values: "linear", "circular".
func OptSearchDefaultTopology(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Search.DefaultTopology", s) {
			c.Search.DefaultTopology = s
		}
	}
}

// OptWeightsMandatory sets the weight of mandatory genes.
func OptWeightsMandatory(f float64) Option {
	return func(c *Config) {
		if isValidWeight("Weights.Mandatory", f) {
			c.Weights.Mandatory = f
		}
	}
}

// OptWeightsAccessory sets the weight of accessory genes.
func OptWeightsAccessory(f float64) Option {
	return func(c *Config) {
		if isValidWeight("Weights.Accessory", f) {
			c.Weights.Accessory = f
		}
	}
}

// OptWeightsNeutral sets the weight of neutral genes.
func OptWeightsNeutral(f float64) Option {
	return func(c *Config) {
		if isValidWeight("Weights.Neutral", f) {
			c.Weights.Neutral = f
		}
	}
}

// OptWeightsItself sets the factor of hits of a group's reference gene.
func OptWeightsItself(f float64) Option {
	return func(c *Config) {
		if isValidWeight("Weights.Itself", f) {
			c.Weights.Itself = f
		}
	}
}

// OptWeightsExchangeable sets the factor of hits of exchangeable genes.
func OptWeightsExchangeable(f float64) Option {
	return func(c *Config) {
		if isValidWeight("Weights.Exchangeable", f) {
			c.Weights.Exchangeable = f
		}
	}
}

// OptWeightsLonerMultiSystem sets the factor of hits of genes that are
// both loner and multi_system.
func OptWeightsLonerMultiSystem(f float64) Option {
	return func(c *Config) {
		if isValidWeight("Weights.LonerMultiSystem", f) {
			c.Weights.LonerMultiSystem = f
		}
	}
}

// OptOutputDir sets the directory for reports.
func OptOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Dir", s) {
			c.Output.Dir = s
		}
	}
}

// OptOutputFormat sets the report format.
// Valid values: "json", "tsv", "all".
func OptOutputFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Output.Format", s) {
			c.Output.Format = s
		}
	}
}

// OptOutputStore sets the result store.
// Valid values: "none", "sqlite", "postgres".
func OptOutputStore(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Output.Store", s) {
			c.Output.Store = s
		}
	}
}

// OptOutputMetricsFile sets the Prometheus text file for run metrics.
func OptOutputMetricsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Metrics File", s) {
			c.Output.MetricsFile = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows written to a store at once.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptInputHitsPath sets the hit table of a search.
// Runtime-only field - not in ToOptions().
func OptInputHitsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Hits Path", s) {
			c.Input.HitsPath = s
		}
	}
}

// OptInputTopologyPath sets the replicon topology table of a search.
// Runtime-only field - not in ToOptions().
func OptInputTopologyPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Topology Path", s) {
			c.Input.TopologyPath = s
		}
	}
}

// OptInputModelsPath sets the model definition file or directory.
// Runtime-only field - not in ToOptions().
func OptInputModelsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Models Path", s) {
			c.Input.ModelsPath = s
		}
	}
}

// OptInputModelIDs restricts a search to the given models or families.
// Runtime-only field - not in ToOptions().
func OptInputModelIDs(ss []string) Option {
	var ids []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			ids = append(ids, s)
		}
	}
	return func(c *Config) {
		if len(ids) > 0 {
			c.Input.ModelIDs = ids
		}
	}
}

// OptModelsDir sets the default directory of model definitions.
func OptModelsDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Models Dir", s) {
			c.ModelsDir = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of replicons processed concurrently.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
