package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/airlift/pkg/types"
)

// Store wraps the target database connection with schema management and
// natural-key-aware inserts.
type Store struct {
	db *sql.DB
	d  dialect

	widenOnce sync.Once
	widenErr  error
}

// Open connects to the target and verifies reachability.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening target: %w", err)
	}
	if d.name == types.DriverSQLite {
		// sqlite serializes writers; a second connection only buys lock
		// contention.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging target: %w", err)
	}
	return &Store{db: db, d: d}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the target is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for tests and ad hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates every table and index of the declarative schema and
// seeds the lookup tables. All statements are no-ops when the objects
// already exist, so every run starts with EnsureSchema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, t := range Tables {
		if _, err := s.db.ExecContext(ctx, s.d.createTable(t)); err != nil {
			return fmt.Errorf("creating table %s: %w", t.Name, err)
		}
		for _, stmt := range s.d.createIndexes(t) {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("indexing table %s: %w", t.Name, err)
			}
		}
	}
	if err := s.seedEnums(ctx); err != nil {
		return fmt.Errorf("seeding lookup tables: %w", err)
	}
	return nil
}

// Widen applies the declarative column capacities to a target created by
// older tooling. It runs at most once per Store; later calls return the
// first outcome.
func (s *Store) Widen(ctx context.Context) error {
	s.widenOnce.Do(func() {
		for _, stmt := range s.d.widenStatements() {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				s.widenErr = fmt.Errorf("widening: %w", err)
				return
			}
		}
	})
	return s.widenErr
}

// Exists reports whether a row with value under the natural-key column
// already exists. This is the check-then-insert fallback; InsertIgnore is
// the preferred, race-free path.
func (s *Store) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	query := s.d.rebind(fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? LIMIT 1", table, column))
	var one int
	err := s.db.QueryRowContext(ctx, query, value).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s.%s: %w", table, column, err)
	}
	return true, nil
}

// InsertIgnore inserts one row, letting the database ignore a conflict on
// the natural-key columns atomically. It reports whether a row was actually
// inserted; false with a nil error means the key already existed.
func (s *Store) InsertIgnore(ctx context.Context, table string, columns []string, values []any, conflict []string) (bool, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		table,
		strings.Join(columns, ", "),
		placeholders,
		strings.Join(conflict, ", "),
	)
	res, err := s.db.ExecContext(ctx, s.d.rebind(query), values...)
	if err != nil {
		return false, fmt.Errorf("inserting into %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return n > 0, nil
}
