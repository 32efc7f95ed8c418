package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/airlift/internal/source"
	"github.com/mesh-intelligence/airlift/pkg/types"
)

// Per-record validation errors. The engine records them as row failures and
// continues.
var (
	ErrNotRecord     = errors.New("source record is not an object")
	ErrMissingKey    = errors.New("record has no usable natural key")
	ErrMissingAmount = errors.New("withdrawal has no usable amount")
)

// SynthPrefix marks synthesized transaction request ids.
const SynthPrefix = "MIG-"

// Options configures a Mapper.
type Options struct {
	// FallbackStatus substitutes for absent or unknown status labels.
	// Defaults to types.DefaultFallbackStatus.
	FallbackStatus string
	// SearchDepth bounds the structural search for account details.
	// Defaults to types.DefaultSearchDepth.
	SearchDepth int
}

// Mapper projects decomposed source bundles onto target rows.
type Mapper struct {
	statuses    *EnumTable
	txTypes     *EnumTable
	searchDepth int
}

// New returns a Mapper, or an error when the fallback status label is not a
// member of the status domain.
func New(opts Options) (*Mapper, error) {
	fallback := opts.FallbackStatus
	if fallback == "" {
		fallback = types.DefaultFallbackStatus
	}
	statuses, err := NewStatusTable(fallback)
	if err != nil {
		return nil, err
	}
	depth := opts.SearchDepth
	if depth <= 0 {
		depth = types.DefaultSearchDepth
	}
	return &Mapper{
		statuses:    statuses,
		txTypes:     NewTypeTable(),
		searchDepth: depth,
	}, nil
}

// User maps a bundle's flat fields to a users row. key is the bundle's
// top-level key and wins only when the record carries no id field of its
// own.
func (m *Mapper) User(key string, flat *source.Node) (*types.User, error) {
	if flat == nil || flat.Kind() != source.KindObject {
		return nil, fmt.Errorf("user %q: %w", key, ErrNotRecord)
	}
	f := newFields(flat)

	uid := f.str("id", "uid")
	if uid == "" {
		uid = key
	}
	if uid == "" {
		return nil, fmt.Errorf("user: %w", ErrMissingKey)
	}

	u := &types.User{
		UID:      uid,
		FullName: f.str("fullName", "full_name", "username", "name"),
		Email:    f.str("email"),
		Phone:    f.str("phone", "phoneNumber", "phone_number"),
		IsAdmin:  asBool(f.at("isAdmin", "is_admin", "admin")),
	}
	if bal, ok := asDecimal(f.at("balance")); ok {
		u.Balance = bal
	}
	if ts, ok := asTime(f.at("createdAt", "created_at", "joinedAt")); ok {
		u.CreatedAt = ts
	}
	return u, nil
}

// Account searches the user's full object graph for account details and
// binds the first match to uid. Returns nil when the graph holds none.
func (m *Mapper) Account(uid string, record *source.Node) *types.UserAccount {
	acct := FindAccountDetails(record, m.searchDepth)
	if acct == nil {
		return nil
	}
	acct.UID = uid
	return acct
}

// Withdrawal maps one withdrawal child record. The child key becomes the
// row's source ref, which pairs with uid as the natural key.
func (m *Mapper) Withdrawal(uid string, child source.Child) (*types.Withdrawal, error) {
	if child.Node.Kind() != source.KindObject {
		return nil, fmt.Errorf("withdrawal %s/%s: %w", uid, child.Key, ErrNotRecord)
	}
	f := newFields(child.Node)

	amount, ok := asDecimal(f.at("amount"))
	if !ok {
		return nil, fmt.Errorf("withdrawal %s/%s: %w", uid, child.Key, ErrMissingAmount)
	}

	w := &types.Withdrawal{
		UID:           uid,
		SourceRef:     child.Key,
		Amount:        amount,
		AccountNumber: f.str("accountNumber", "account_number"),
		BankCode:      f.str("bankCode", "bank_code"),
		BankName:      f.str("bankName", "bank_name"),
		AccountName:   f.str("accountName", "account_name"),
		StatusID:      *m.statuses.Code(f.str("status")),
		CreatedAt:     time.Now().UTC(),
	}
	if fee, ok := asDecimal(f.at("fee")); ok {
		w.Fee = fee
	}
	w.NetAmount = f.decPtr("netAmount", "net_amount")
	if ts, ok := asTime(f.at("createdAt", "created_at", "date", "timestamp")); ok {
		w.CreatedAt = ts
	}
	return w, nil
}

// Transaction maps one transaction child record. The request id comes from
// the record, then from a keyed collection's child key, and is synthesized
// as a last resort. Unmapped fields are consolidated into Extra.
func (m *Mapper) Transaction(uid string, child source.Child) (*types.Transaction, error) {
	if child.Node.Kind() != source.KindObject {
		return nil, fmt.Errorf("transaction %s/%s: %w", uid, child.Key, ErrNotRecord)
	}
	f := newFields(child.Node)

	requestID := f.str("requestId", "request_id", "requestID")
	if requestID == "" && child.Keyed {
		requestID = child.Key
	}
	if requestID == "" {
		requestID = synthesizeRequestID()
	}

	tx := &types.Transaction{
		RequestID:      requestID,
		UID:            uid,
		TypeID:         m.txTypes.Code(f.str("type", "transactionType", "transaction_type", "service")),
		StatusID:       *m.statuses.Code(f.str("status")),
		Date:           time.Now().UTC(),
		Amount:         f.decPtr("amount"),
		AmountCharged:  f.decPtr("amountCharged", "amount_charged"),
		Discount:       f.decPtr("discount"),
		BalanceBefore:  f.decPtr("balanceBefore", "balance_before"),
		BalanceAfter:   f.decPtr("balanceAfter", "balance_after"),
		Phone:          f.str("phone"),
		Network:        f.str("network"),
		Product:        f.str("product"),
		ServiceID:      f.str("serviceID", "service_id", "serviceId"),
		CustomerID:     f.str("customerID", "customer_id", "customerId"),
		Reference:      f.str("reference", "ref"),
		OrderID:        f.str("orderID", "order_id", "orderId"),
		Message:        f.str("message"),
		GrossAmount:    f.decPtr("grossAmount", "gross_amount"),
		Fee:            f.decPtr("fee"),
		NetAmount:      f.decPtr("netAmount", "net_amount"),
		TransactionRef: f.str("transactionRef", "transaction_ref"),
	}
	if ts, ok := asTime(f.at("date", "createdAt", "created_at", "timestamp")); ok {
		tx.Date = ts
	}

	extra := f.rest()
	if len(extra) > 0 {
		blob, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: consolidating extras: %w", requestID, err)
		}
		tx.Extra = blob
	}
	return tx, nil
}

// synthesizeRequestID generates a collision-resistant request id for
// transactions that lack one: a literal prefix plus a UUID v7, scoped to
// the record rather than the run.
func synthesizeRequestID() string {
	return SynthPrefix + uuid.Must(uuid.NewV7()).String()
}

// fields tracks which keys of a record have been consumed by named-column
// mapping, so the remainder can be consolidated into the extras blob.
type fields struct {
	node *source.Node
	used map[string]bool
}

func newFields(n *source.Node) *fields {
	return &fields{node: n, used: make(map[string]bool)}
}

// at returns the first alias present on the record and marks every alias
// consumed, so alternate spellings of a mapped field never leak into
// extras.
func (f *fields) at(aliases ...string) *source.Node {
	var found *source.Node
	for _, alias := range aliases {
		child := f.node.Child(alias)
		if child == nil {
			continue
		}
		f.used[alias] = true
		if found == nil {
			found = child
		}
	}
	return found
}

// str resolves aliases to a string value, empty when absent or unusable.
func (f *fields) str(aliases ...string) string {
	s, _ := asString(f.at(aliases...))
	return s
}

// decPtr resolves aliases to a nullable decimal.
func (f *fields) decPtr(aliases ...string) *decimal.Decimal {
	if v, ok := asDecimal(f.at(aliases...)); ok {
		return &v
	}
	return nil
}

// rest returns the unconsumed fields as plain values, in no particular
// order; serialization sorts keys.
func (f *fields) rest() map[string]any {
	out := make(map[string]any)
	for _, key := range f.node.Keys() {
		if f.used[key] {
			continue
		}
		out[key] = f.node.Child(key).Interface()
	}
	return out
}
