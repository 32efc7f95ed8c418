package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// TableCounts aggregates per-table row outcomes for one run.
type TableCounts struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Report aggregates counts and timing for a migration run. It is safe for
// concurrent use by the writer goroutines; the zero value is not usable,
// call NewReport.
type Report struct {
	mu sync.Mutex

	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Elapsed    time.Duration           `json:"elapsed_ns"`
	Success    bool                    `json:"success"`
	Canceled   bool                    `json:"canceled"`
	FatalErr   string                  `json:"fatal_error,omitempty"`
	Tables     map[string]*TableCounts `json:"tables"`
}

// NewReport returns a Report with counters for all four entity tables and
// StartedAt set to now.
func NewReport() *Report {
	return &Report{
		StartedAt: time.Now().UTC(),
		Tables: map[string]*TableCounts{
			TableUsers:        {},
			TableUserAccounts: {},
			TableWithdrawals:  {},
			TableTransactions: {},
		},
	}
}

func (r *Report) counts(table string) *TableCounts {
	c, ok := r.Tables[table]
	if !ok {
		c = &TableCounts{}
		r.Tables[table] = c
	}
	return c
}

// AddMigrated records a newly inserted row.
func (r *Report) AddMigrated(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts(table).Migrated++
}

// AddSkipped records a row skipped as a duplicate of its natural key.
func (r *Report) AddSkipped(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts(table).Skipped++
}

// AddFailed records a per-row failure.
func (r *Report) AddFailed(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts(table).Failed++
}

// Counts returns a copy of the counters for table.
func (r *Report) Counts(table string) TableCounts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.counts(table)
}

// Finish stamps the end of the run. fatal, when non-nil, marks the run as
// aborted and records the cause; counts accumulated so far are preserved.
func (r *Report) Finish(fatal error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now().UTC()
	r.Elapsed = r.FinishedAt.Sub(r.StartedAt)
	r.Success = fatal == nil
	if fatal != nil {
		r.FatalErr = fatal.Error()
	}
}

// MarkCanceled flags the report as the partial result of a canceled run.
func (r *Report) MarkCanceled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Canceled = true
}

// String renders the report as a human-readable summary table.
func (r *Report) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	switch {
	case !r.Success:
		b.WriteString("migration ABORTED")
		if r.FatalErr != "" {
			fmt.Fprintf(&b, ": %s", r.FatalErr)
		}
		b.WriteByte('\n')
	case r.Canceled:
		b.WriteString("migration canceled (partial)\n")
	default:
		b.WriteString("migration complete\n")
	}

	names := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := r.Tables[name]
		fmt.Fprintf(&b, "  %-18s migrated=%d skipped=%d failed=%d\n",
			name, c.Migrated, c.Skipped, c.Failed)
	}
	fmt.Fprintf(&b, "  elapsed: %s\n", r.Elapsed.Round(time.Millisecond))
	return b.String()
}
