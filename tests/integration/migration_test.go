// End-to-end migration test: a JSON export on disk, a file-backed sqlite
// target, and two full runs through the engine.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/airlift/internal/mapping"
	"github.com/mesh-intelligence/airlift/internal/migrate"
	"github.com/mesh-intelligence/airlift/internal/source"
	"github.com/mesh-intelligence/airlift/internal/store"
	"github.com/mesh-intelligence/airlift/pkg/types"
)

const export = `{
  "users": {
    "7001": {
      "id": "7001",
      "imuid": "IM7001",
      "username": "ada",
      "balance": 400,
      "ref_by": "",
      "referrals": ["7002"],
      "accountDetails": {"bankName": "GTB", "accountNumber": "0123456789", "accountName": "Ada L"},
      "withdrawals": [
        {"amount": 350, "phone": "0803", "network": "MTN", "status": "pending"}
      ],
      "transactions": {
        "TX-1": {"type": "airtime", "status": "success", "amount": 100, "network": "MTN"},
        "TX-2": {"type": "giftcard", "status": "done", "amount": 25, "vendorRef": "V-9"}
      }
    },
    "7002": {
      "id": "7002",
      "username": "bayo",
      "balance": 50,
      "ref_by": "7001"
    }
  }
}`

func runOnce(t *testing.T, cfg types.Config) *types.Report {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.Target.Driver, cfg.Target.DSN)
	require.NoError(t, err)
	defer st.Close()

	mapper, err := mapping.New(mapping.Options{
		FallbackStatus: cfg.Migrate.FallbackStatus,
		SearchDepth:    cfg.Migrate.SearchDepth,
	})
	require.NoError(t, err)

	engine := migrate.New(source.NewFileSource(cfg.Source.Path), st, mapper, cfg, nil)
	report, err := engine.Run(ctx)
	require.NoError(t, err)
	return report
}

func TestMigrationEndToEnd(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(exportPath, []byte(export), 0o644))

	cfg := types.Config{
		Source: types.SourceConfig{Path: exportPath, UsersRoot: types.DefaultUsersRoot},
		Target: types.TargetConfig{Driver: types.DriverSQLite, DSN: filepath.Join(dir, "target.db")},
		Migrate: types.MigrateConfig{
			Workers:        4,
			WriteTimeout:   10 * time.Second,
			FallbackStatus: types.DefaultFallbackStatus,
			SearchDepth:    types.DefaultSearchDepth,
		},
	}
	require.NoError(t, cfg.Validate())

	first := runOnce(t, cfg)
	assert.Equal(t, 2, first.Counts(types.TableUsers).Migrated)
	assert.Equal(t, 1, first.Counts(types.TableUserAccounts).Migrated)
	assert.Equal(t, 1, first.Counts(types.TableWithdrawals).Migrated)
	assert.Equal(t, 2, first.Counts(types.TableTransactions).Migrated)

	st, err := store.Open(context.Background(), cfg.Target.Driver, cfg.Target.DSN)
	require.NoError(t, err)
	defer st.Close()
	db := st.DB()

	// The unmapped vendorRef survives in the extras column; the unknown
	// status and type resolve to the fallback and null respectively.
	var extra string
	var statusID int16
	var typeID *int16
	require.NoError(t, db.QueryRow(
		"SELECT extra, status_id, type_id FROM transactions WHERE request_id = 'TX-2'",
	).Scan(&extra, &statusID, &typeID))
	assert.Contains(t, extra, "V-9")
	assert.Equal(t, int16(3), statusID)
	assert.Nil(t, typeID)

	// imuid, ref_by, and referrals have no user column and are dropped by
	// projection, not turned into failures.
	assert.Zero(t, first.Counts(types.TableUsers).Failed)

	second := runOnce(t, cfg)
	assert.Zero(t, second.Counts(types.TableUsers).Migrated)
	assert.Zero(t, second.Counts(types.TableTransactions).Migrated)
	assert.Equal(t, first.Counts(types.TableUsers).Migrated, second.Counts(types.TableUsers).Skipped)
	assert.Equal(t, first.Counts(types.TableTransactions).Migrated, second.Counts(types.TableTransactions).Skipped)
	assert.Equal(t, first.Counts(types.TableWithdrawals).Migrated, second.Counts(types.TableWithdrawals).Skipped)
}
