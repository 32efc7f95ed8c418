// Package types defines the migration configuration, the target-row entity
// types, the run report, and the standard errors shared across the airlift
// engine packages.
package types
