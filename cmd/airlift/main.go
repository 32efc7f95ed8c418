// Package main provides the airlift CLI: a one-shot migrator that copies
// user, account, withdrawal, and transaction data from a hierarchical store
// export into a normalized relational schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess = 0
	exitUserErr = 1
	exitRunErr  = 2
)

// Global flag values.
var (
	flagConfig  string
	flagJSON    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "airlift",
	Short: "airlift migrates hierarchical-store exports into a SQL schema",
	Long: `airlift is a one-shot batch migrator. It reads a JSON export of a
tree-shaped, schemaless store, normalizes the free-form records it finds,
and inserts them into a relational target in dependency order. Reruns are
safe: every table deduplicates on its natural key.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserErr)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./airlift.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output the run report as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log at debug level")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(schemaCmd)
}
