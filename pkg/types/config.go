package types

import (
	"errors"
	"time"
)

// Supported target drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config validation errors.
var (
	ErrSourcePathEmpty    = errors.New("source path must not be empty")
	ErrDriverUnknown      = errors.New("unknown target driver")
	ErrDSNEmpty           = errors.New("target dsn must not be empty")
	ErrWorkersInvalid     = errors.New("workers must be positive")
	ErrTimeoutInvalid     = errors.New("write timeout must be positive")
	ErrSearchDepthInvalid = errors.New("search depth must be positive")
)

// knownDrivers lists the target drivers that Validate accepts.
var knownDrivers = map[string]bool{
	DriverSQLite:   true,
	DriverPostgres: true,
}

// SourceConfig locates the hierarchical source export.
type SourceConfig struct {
	// Path is the JSON export file of the hierarchical store.
	Path string `mapstructure:"path" yaml:"path"`
	// UsersRoot is the top-level key holding user records.
	UsersRoot string `mapstructure:"users_root" yaml:"users_root"`
}

// TargetConfig selects and locates the relational target.
type TargetConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// MigrateConfig tunes the run itself.
type MigrateConfig struct {
	// Workers bounds concurrent child-table writes within a user bundle.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// WriteTimeout bounds each row insert. A timeout counts as a per-row
	// failure unless the connection itself is unusable.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// FallbackStatus is the status label substituted for absent or
	// unrecognized status labels.
	FallbackStatus string `mapstructure:"fallback_status" yaml:"fallback_status"`
	// SearchDepth bounds the structural search for account details.
	SearchDepth int `mapstructure:"search_depth" yaml:"search_depth"`
}

// Config holds everything a run needs beyond the source data itself.
type Config struct {
	Source  SourceConfig  `mapstructure:"source" yaml:"source"`
	Target  TargetConfig  `mapstructure:"target" yaml:"target"`
	Migrate MigrateConfig `mapstructure:"migrate" yaml:"migrate"`
}

// Defaults for MigrateConfig and SourceConfig fields left unset.
const (
	DefaultUsersRoot      = "users"
	DefaultWorkers        = 4
	DefaultWriteTimeout   = 5 * time.Second
	DefaultFallbackStatus = "pending"
	DefaultSearchDepth    = 8
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Source.Path == "" {
		return ErrSourcePathEmpty
	}
	if !knownDrivers[c.Target.Driver] {
		return ErrDriverUnknown
	}
	if c.Target.DSN == "" {
		return ErrDSNEmpty
	}
	if c.Migrate.Workers <= 0 {
		return ErrWorkersInvalid
	}
	if c.Migrate.WriteTimeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.Migrate.SearchDepth <= 0 {
		return ErrSearchDepthInvalid
	}
	return nil
}
