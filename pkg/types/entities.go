package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Target table names, in dependency order.
const (
	TableStatuses         = "statuses"
	TableTransactionTypes = "transaction_types"
	TableUsers            = "users"
	TableUserAccounts     = "user_accounts"
	TableWithdrawals      = "withdrawals"
	TableTransactions     = "transactions"
)

// User is the projection of one source user onto the users table.
// UID is the natural key.
type User struct {
	UID       string
	FullName  string
	Email     string
	Phone     string
	Balance   decimal.Decimal
	IsAdmin   bool
	CreatedAt time.Time
}

// UserAccount is the bank account substructure found by structural search.
// AccountNumber is the natural key; Provider is optional.
type UserAccount struct {
	UID           string
	BankName      string
	AccountNumber string
	AccountName   string
	Provider      string
}

// Withdrawal is one withdrawal child record. SourceRef is the child key
// within the owner's withdrawals collection (array index or push key);
// (UID, SourceRef) is the natural key that makes reruns idempotent.
type Withdrawal struct {
	UID           string
	SourceRef     string
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	NetAmount     *decimal.Decimal
	AccountNumber string
	BankCode      string
	BankName      string
	AccountName   string
	StatusID      int16
	CreatedAt     time.Time
}

// Transaction is one transaction child record. RequestID is the natural key,
// synthesized when the source omits it. TypeID is nil when the type label is
// absent or unmapped; StatusID is always populated. Extra carries every
// source field without a named column, serialized as JSON.
type Transaction struct {
	RequestID      string
	UID            string
	TypeID         *int16
	StatusID       int16
	Date           time.Time
	Amount         *decimal.Decimal
	AmountCharged  *decimal.Decimal
	Discount       *decimal.Decimal
	BalanceBefore  *decimal.Decimal
	BalanceAfter   *decimal.Decimal
	Phone          string
	Network        string
	Product        string
	ServiceID      string
	CustomerID     string
	Reference      string
	OrderID        string
	Message        string
	GrossAmount    *decimal.Decimal
	Fee            *decimal.Decimal
	NetAmount      *decimal.Decimal
	TransactionRef string
	Extra          json.RawMessage
}
