// Package contract holds the validated runtime configuration and the small
// shared utilities that every layer of the engine agrees on.
package contract

import (
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sinteticoai/givemetry/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DateOnlyFormat is the short form accepted for --as-of and CSV dates.
const DateOnlyFormat = "2006-01-02"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool   // Whether profiling is enabled
	Prefix  string // Prefix for profile output files
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RiskWeightsRaw holds custom lapse risk factor weights from the config
// file. Pointers distinguish "not set" from an explicit zero.
type RiskWeightsRaw struct {
	Recency   *float64 `mapstructure:"recency"`
	Frequency *float64 `mapstructure:"frequency"`
	Monetary  *float64 `mapstructure:"monetary"`
	Contact   *float64 `mapstructure:"contact"`
}

// HealthWeightsRaw holds custom health category weights from the config file.
type HealthWeightsRaw struct {
	Completeness *float64 `mapstructure:"completeness"`
	Freshness    *float64 `mapstructure:"freshness"`
	Consistency  *float64 `mapstructure:"consistency"`
	Coverage     *float64 `mapstructure:"coverage"`
}

// WeightsRawInput holds all custom scoring definitions from the YAML config file.
type WeightsRawInput struct {
	Risk   *RiskWeightsRaw   `mapstructure:"risk"`
	Health *HealthWeightsRaw `mapstructure:"health"`
}

// Config holds the runtime configuration for the engine.
// This struct remains the "final, validated" config.
type Config struct {
	ConstituentsFile string
	GiftsFile        string
	ContactsFile     string

	// ReferenceDate is the "now" every calculation is anchored to.
	// Defaults to the wall clock; pinning it makes runs reproducible.
	ReferenceDate time.Time

	ResultLimit int
	Workers     int
	Precision   int
	Explain     bool
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	MinSeverity schema.Severity
	Store       bool // Persist generated alerts to the alert store

	AlertBackend   schema.DatabaseBackend
	AlertDBConnect string // Please use env var as this is plaintext

	// CustomRiskWeights overrides the default lapse risk factor weights.
	// Nil means defaults.
	CustomRiskWeights map[schema.FactorKey]float64

	// CustomHealthWeights overrides the default health category weights.
	CustomHealthWeights map[schema.HealthKey]float64

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Constituents   string `mapstructure:"constituents"`
	Gifts          string `mapstructure:"gifts"`
	Contacts       string `mapstructure:"contacts"`
	AsOf           string `mapstructure:"as-of"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	AlertBackend   string `mapstructure:"alert-backend"`
	AlertDBConnect string `mapstructure:"alert-db-connect"`

	// --- Fields from riskCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from alertsCmd.Flags() ---
	MinSeverity string `mapstructure:"min-severity"`
	Store       bool   `mapstructure:"store"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CustomRiskWeights != nil {
		clone.CustomRiskWeights = make(map[schema.FactorKey]float64, len(c.CustomRiskWeights))
		maps.Copy(clone.CustomRiskWeights, c.CustomRiskWeights)
	}
	if c.CustomHealthWeights != nil {
		clone.CustomHealthWeights = make(map[schema.HealthKey]float64, len(c.CustomHealthWeights))
		maps.Copy(clone.CustomHealthWeights, c.CustomHealthWeights)
	}
	return &clone
}

// CloneWithReferenceDate creates a copy of the Config pinned to a new
// reference date.
func (c *Config) CloneWithReferenceDate(ref time.Time) *Config {
	clone := c.Clone()
	clone.ReferenceDate = ref
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processReferenceDate(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// validateSimpleInputs processes and validates all non-date fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ConstituentsFile = input.Constituents
	cfg.GiftsFile = input.Gifts
	cfg.ContactsFile = input.Contacts
	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.Store = input.Store

	// A positional data directory fills in the conventional file names;
	// explicit file flags win over it.
	if input.DataDirStr != "" {
		if cfg.ConstituentsFile == "" {
			cfg.ConstituentsFile = filepath.Join(input.DataDirStr, "constituents.csv")
		}
		if cfg.GiftsFile == "" {
			cfg.GiftsFile = filepath.Join(input.DataDirStr, "gifts.csv")
		}
		if cfg.ContactsFile == "" {
			cfg.ContactsFile = filepath.Join(input.DataDirStr, "contacts.csv")
		}
	}
	if cfg.ConstituentsFile == "" {
		return fmt.Errorf("a constituents CSV file is required (positional data dir or --constituents)")
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 4. Severity Floor Validation ---
	if input.MinSeverity != "" {
		sev := schema.Severity(strings.ToLower(input.MinSeverity))
		if _, ok := schema.ValidSeverities[sev]; !ok {
			return fmt.Errorf("invalid severity '%s'. must be low, medium, high", input.MinSeverity)
		}
		cfg.MinSeverity = sev
	}

	return nil
}

// processReferenceDate resolves the --as-of value. Absolute dates come
// first (date-only, then full timestamps), with relative forms like
// "3 months ago" as a fallback.
func processReferenceDate(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.ReferenceDate = now

	if input.AsOf == "" {
		return nil
	}

	if t, err := time.Parse(DateOnlyFormat, input.AsOf); err == nil {
		cfg.ReferenceDate = t
		return nil
	}
	if t, err := time.Parse(DateTimeFormat, input.AsOf); err == nil {
		cfg.ReferenceDate = t
		return nil
	}
	t, err := ParseRelativeTime(input.AsOf, now)
	if err != nil {
		return fmt.Errorf("invalid --as-of value '%s'. Expected YYYY-MM-DD, ISO8601 or 'N [units] ago'", input.AsOf)
	}
	cfg.ReferenceDate = t
	return nil
}

// processCustomWeights lifts the optional weight overrides from the config
// file into typed maps. A partial override is an error: the scorers expect
// either the full set or nothing.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	if r := input.Weights.Risk; r != nil {
		set := map[schema.FactorKey]*float64{
			schema.FactorRecency:   r.Recency,
			schema.FactorFrequency: r.Frequency,
			schema.FactorMonetary:  r.Monetary,
			schema.FactorContact:   r.Contact,
		}
		weights, err := collectWeights(set, "weights.risk")
		if err != nil {
			return err
		}
		cfg.CustomRiskWeights = weights
	}

	if h := input.Weights.Health; h != nil {
		set := map[schema.HealthKey]*float64{
			schema.HealthCompleteness: h.Completeness,
			schema.HealthFreshness:    h.Freshness,
			schema.HealthConsistency:  h.Consistency,
			schema.HealthCoverage:     h.Coverage,
		}
		weights, err := collectWeights(set, "weights.health")
		if err != nil {
			return err
		}
		cfg.CustomHealthWeights = weights
	}

	return nil
}

// collectWeights materializes a pointer map into a value map, rejecting
// partial sets and negative weights.
func collectWeights[K ~string](set map[K]*float64, section string) (map[K]float64, error) {
	out := make(map[K]float64, len(set))
	for key, ptr := range set {
		if ptr == nil {
			return nil, fmt.Errorf("%s.%s is missing: custom weights must cover every key", section, string(key))
		}
		if *ptr < 0 {
			return nil, fmt.Errorf("%s.%s must not be negative (received %v)", section, string(key), *ptr)
		}
		out[key] = *ptr
	}
	return out, nil
}

// validateBackendConfig validates the alert storage backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.AlertBackend = schema.DatabaseBackend(strings.ToLower(input.AlertBackend))
	if _, ok := schema.ValidAlertBackends[cfg.AlertBackend]; !ok {
		return fmt.Errorf("invalid alert backend '%s'. must be sqlite, mysql, postgresql, none", input.AlertBackend)
	}
	cfg.AlertDBConnect = input.AlertDBConnect
	return ValidateDatabaseConnectionString(cfg.AlertBackend, cfg.AlertDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("alert-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("alert-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
