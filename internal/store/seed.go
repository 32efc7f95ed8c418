package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/airlift/internal/mapping"
	"github.com/mesh-intelligence/airlift/pkg/types"
)

// seedEnums inserts the fixed status and transaction-type rows. Seeding is
// idempotent: a conflict on the primary key is ignored, so reruns and
// concurrent runs cannot duplicate or fail on existing rows.
func (s *Store) seedEnums(ctx context.Context) error {
	seeds := []struct {
		table  string
		values []mapping.EnumValue
	}{
		{types.TableStatuses, mapping.Statuses},
		{types.TableTransactionTypes, mapping.TransactionTypes},
	}
	for _, seed := range seeds {
		for _, v := range seed.values {
			_, err := s.InsertIgnore(ctx, seed.table,
				[]string{"id", "name"},
				[]any{v.Code, v.Label},
				[]string{"id"},
			)
			if err != nil {
				return fmt.Errorf("seeding %s %q: %w", seed.table, v.Label, err)
			}
		}
	}
	return nil
}
