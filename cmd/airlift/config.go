// Config loading for the airlift CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/airlift/pkg/types"
)

// loadConfig reads the config file (or the defaults when none exists) into
// a validated types.Config. Precedence: config file > defaults. The
// connection descriptor has no flag surface; everything a run needs lives
// in the file.
func loadConfig(path string) (types.Config, error) {
	v := viper.New()

	v.SetDefault("source.users_root", types.DefaultUsersRoot)
	v.SetDefault("target.driver", types.DriverSQLite)
	v.SetDefault("migrate.workers", types.DefaultWorkers)
	v.SetDefault("migrate.write_timeout", types.DefaultWriteTimeout)
	v.SetDefault("migrate.fallback_status", types.DefaultFallbackStatus)
	v.SetDefault("migrate.search_depth", types.DefaultSearchDepth)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("airlift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing implicit config file falls through to Validate, which
		// reports the actually-missing settings. An explicit --config path
		// that cannot be read is an error outright.
		if !errors.As(err, &notFound) || path != "" {
			return types.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger: production JSON by default, development
// console with --verbose.
func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
