// Migrate command: the one-shot batch run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/airlift/internal/mapping"
	"github.com/mesh-intelligence/airlift/internal/migrate"
	"github.com/mesh-intelligence/airlift/internal/source"
	"github.com/mesh-intelligence/airlift/internal/store"
	"github.com/mesh-intelligence/airlift/pkg/types"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the migration against the configured source and target",
	Long: `Run one migration. The run ensures the target schema, walks the
source export, and inserts rows in dependency order. Interrupting the
process stops it from taking up new records; in-flight writes finish and a
partial report is printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(exitUserErr)
		}

		log, err := newLogger()
		if err != nil {
			return err
		}

		report, err := runMigration(cmd.Context(), cfg, log)
		if report != nil {
			printReport(report)
		}
		// os.Exit skips deferred calls; flush before deciding.
		log.Sync() //nolint:errcheck
		if err != nil {
			os.Exit(exitRunErr)
		}
		return nil
	},
}

// runMigration wires the source, target, mapper, and engine together and
// executes the run under signal-driven cancellation.
func runMigration(ctx context.Context, cfg types.Config, log *zap.Logger) (*types.Report, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Target.Driver, cfg.Target.DSN)
	if err != nil {
		log.Error("target unavailable", zap.Error(err))
		return nil, err
	}
	defer st.Close()

	mapper, err := mapping.New(mapping.Options{
		FallbackStatus: cfg.Migrate.FallbackStatus,
		SearchDepth:    cfg.Migrate.SearchDepth,
	})
	if err != nil {
		log.Error("invalid mapper options", zap.Error(err))
		return nil, err
	}

	src := source.NewFileSource(cfg.Source.Path)
	engine := migrate.New(src, st, mapper, cfg, log)
	return engine.Run(ctx)
}

func printReport(report *types.Report) {
	if flagJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "encoding report:", err)
			return
		}
		fmt.Println(string(data))
		return
	}
	fmt.Print(report.String())
}
