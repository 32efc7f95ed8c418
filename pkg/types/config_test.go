package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Source: SourceConfig{Path: "export.json", UsersRoot: DefaultUsersRoot},
		Target: TargetConfig{Driver: DriverSQLite, DSN: "target.db"},
		Migrate: MigrateConfig{
			Workers:        DefaultWorkers,
			WriteTimeout:   DefaultWriteTimeout,
			FallbackStatus: DefaultFallbackStatus,
			SearchDepth:    DefaultSearchDepth,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid sqlite config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid postgres config",
			mutate: func(c *Config) { c.Target.Driver = DriverPostgres; c.Target.DSN = "postgres://localhost/x" },
		},
		{
			name:    "empty source path",
			mutate:  func(c *Config) { c.Source.Path = "" },
			wantErr: ErrSourcePathEmpty,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Target.Driver = "oracle" },
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "empty driver",
			mutate:  func(c *Config) { c.Target.Driver = "" },
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "empty dsn",
			mutate:  func(c *Config) { c.Target.DSN = "" },
			wantErr: ErrDSNEmpty,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Migrate.Workers = 0 },
			wantErr: ErrWorkersInvalid,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Migrate.WriteTimeout = -time.Second },
			wantErr: ErrTimeoutInvalid,
		},
		{
			name:    "zero search depth",
			mutate:  func(c *Config) { c.Migrate.SearchDepth = 0 },
			wantErr: ErrSearchDepthInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
