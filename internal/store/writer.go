package store

import (
	"context"
	"time"

	"github.com/mesh-intelligence/airlift/pkg/types"
)

// Typed insert helpers, one per entity table. Each is a conflict-tolerant
// insert on the table's natural key and reports whether a row was actually
// written (false means skipped as a duplicate).

// InsertUser writes a users row keyed on uid.
func (s *Store) InsertUser(ctx context.Context, u *types.User) (bool, error) {
	return s.InsertIgnore(ctx, types.TableUsers,
		[]string{"uid", "full_name", "email", "phone", "balance", "is_admin", "created_at"},
		[]any{u.UID, u.FullName, u.Email, u.Phone, u.Balance, u.IsAdmin, timestamp(u.CreatedAt)},
		[]string{"uid"},
	)
}

// InsertAccount writes a user_accounts row keyed on account_number.
func (s *Store) InsertAccount(ctx context.Context, a *types.UserAccount) (bool, error) {
	return s.InsertIgnore(ctx, types.TableUserAccounts,
		[]string{"uid", "bank_name", "account_number", "account_name", "provider"},
		[]any{a.UID, a.BankName, a.AccountNumber, a.AccountName, a.Provider},
		[]string{"account_number"},
	)
}

// InsertWithdrawal writes a withdrawals row keyed on (uid, source_ref).
func (s *Store) InsertWithdrawal(ctx context.Context, w *types.Withdrawal) (bool, error) {
	return s.InsertIgnore(ctx, types.TableWithdrawals,
		[]string{
			"uid", "source_ref", "amount", "fee", "net_amount",
			"account_number", "bank_code", "bank_name", "account_name",
			"status_id", "created_at",
		},
		[]any{
			w.UID, w.SourceRef, w.Amount, w.Fee, w.NetAmount,
			w.AccountNumber, w.BankCode, w.BankName, w.AccountName,
			w.StatusID, timestamp(w.CreatedAt),
		},
		[]string{"uid", "source_ref"},
	)
}

// InsertTransaction writes a transactions row keyed on request_id.
func (s *Store) InsertTransaction(ctx context.Context, t *types.Transaction) (bool, error) {
	var extra any
	if len(t.Extra) > 0 {
		// Passed as a string so the JSON column accepts it on both engines.
		extra = string(t.Extra)
	}
	return s.InsertIgnore(ctx, types.TableTransactions,
		[]string{
			"request_id", "uid", "type_id", "status_id", "date",
			"amount", "amount_charged", "discount", "balance_before", "balance_after",
			"phone", "network", "product", "service_id", "customer_id",
			"reference", "order_id", "message",
			"gross_amount", "fee", "net_amount", "transaction_ref", "extra",
		},
		[]any{
			t.RequestID, t.UID, t.TypeID, t.StatusID, timestamp(t.Date),
			t.Amount, t.AmountCharged, t.Discount, t.BalanceBefore, t.BalanceAfter,
			t.Phone, t.Network, t.Product, t.ServiceID, t.CustomerID,
			t.Reference, t.OrderID, t.Message,
			t.GrossAmount, t.Fee, t.NetAmount, t.TransactionRef, extra,
		},
		[]string{"request_id"},
	)
}

// timestamp normalizes a possibly-zero time to UTC now, matching the
// column defaults.
func timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
