// Package store manages the relational target: it renders a declarative,
// versioned schema for the configured dialect, seeds the lookup tables
// idempotently, and exposes conflict-tolerant inserts keyed on each table's
// natural key.
package store

// SchemaVersion identifies the declarative schema below. Version 2 bakes in
// the widened string capacities that version 1 targets had to acquire
// through runtime ALTERs; Widen upgrades such targets once.
const SchemaVersion = 2

// ColType is the semantic column type, rendered per dialect.
type ColType int

const (
	TypeSerial ColType = iota // auto-increment surrogate primary key
	TypeCode                  // small integer enumeration code
	TypeID                    // natural-key identifier string
	TypeShortString
	TypeLongString
	TypeDecimal
	TypeBool
	TypeTimestamp
	TypeJSON
)

// Column describes one target column.
type Column struct {
	Name    string
	Type    ColType
	Size    int // capacity for string types, where the dialect enforces one
	PK      bool
	NotNull bool
	Unique  bool
	Default string // "now", "0", "false", or empty
	Ref     string // foreign key target, e.g. "users(uid)"
}

// TableSpec describes one target table.
type TableSpec struct {
	Name    string
	Columns []Column
	// Uniques lists composite unique constraints beyond per-column ones.
	Uniques [][]string
	// Indexes lists non-unique indexes as column sets.
	Indexes [][]string
}

// Tables is the full target schema in dependency order: lookup tables,
// then users, then the child tables.
var Tables = []TableSpec{
	{
		Name: "statuses",
		Columns: []Column{
			{Name: "id", Type: TypeCode, PK: true},
			{Name: "name", Type: TypeShortString, Size: 20, NotNull: true, Unique: true},
		},
	},
	{
		Name: "transaction_types",
		Columns: []Column{
			{Name: "id", Type: TypeCode, PK: true},
			{Name: "name", Type: TypeShortString, Size: 20, NotNull: true, Unique: true},
		},
	},
	{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: TypeSerial, PK: true},
			{Name: "uid", Type: TypeID, Size: 64, NotNull: true, Unique: true},
			{Name: "full_name", Type: TypeLongString, Size: 150},
			{Name: "email", Type: TypeLongString, Size: 255},
			{Name: "phone", Type: TypeShortString, Size: 30},
			{Name: "balance", Type: TypeDecimal, NotNull: true, Default: "0"},
			{Name: "is_admin", Type: TypeBool, Default: "false"},
			{Name: "created_at", Type: TypeTimestamp, Default: "now"},
		},
		Indexes: [][]string{{"uid"}},
	},
	{
		Name: "user_accounts",
		Columns: []Column{
			{Name: "id", Type: TypeSerial, PK: true},
			{Name: "uid", Type: TypeID, Size: 64, NotNull: true, Ref: "users(uid)"},
			{Name: "bank_name", Type: TypeLongString, Size: 100},
			{Name: "account_number", Type: TypeShortString, Size: 50, NotNull: true, Unique: true},
			{Name: "account_name", Type: TypeLongString, Size: 100},
			{Name: "provider", Type: TypeShortString, Size: 50},
			{Name: "created_at", Type: TypeTimestamp, Default: "now"},
		},
		Indexes: [][]string{{"uid"}},
	},
	{
		Name: "withdrawals",
		Columns: []Column{
			{Name: "id", Type: TypeSerial, PK: true},
			{Name: "uid", Type: TypeID, Size: 64, NotNull: true, Ref: "users(uid)"},
			{Name: "source_ref", Type: TypeID, Size: 64, NotNull: true},
			{Name: "amount", Type: TypeDecimal, NotNull: true},
			{Name: "fee", Type: TypeDecimal, Default: "0"},
			{Name: "net_amount", Type: TypeDecimal},
			{Name: "account_number", Type: TypeShortString, Size: 50},
			{Name: "bank_code", Type: TypeShortString, Size: 20},
			{Name: "bank_name", Type: TypeLongString, Size: 100},
			{Name: "account_name", Type: TypeLongString, Size: 150},
			{Name: "status_id", Type: TypeCode, NotNull: true, Ref: "statuses(id)"},
			{Name: "created_at", Type: TypeTimestamp, Default: "now"},
		},
		Uniques: [][]string{{"uid", "source_ref"}},
		Indexes: [][]string{{"uid"}},
	},
	{
		Name: "transactions",
		Columns: []Column{
			{Name: "id", Type: TypeSerial, PK: true},
			{Name: "request_id", Type: TypeID, Size: 100, NotNull: true, Unique: true},
			{Name: "uid", Type: TypeID, Size: 64, NotNull: true, Ref: "users(uid)"},
			{Name: "type_id", Type: TypeCode, Ref: "transaction_types(id)"},
			{Name: "status_id", Type: TypeCode, NotNull: true, Ref: "statuses(id)"},
			{Name: "date", Type: TypeTimestamp, NotNull: true, Default: "now"},
			{Name: "amount", Type: TypeDecimal},
			{Name: "amount_charged", Type: TypeDecimal},
			{Name: "discount", Type: TypeDecimal, Default: "0"},
			{Name: "balance_before", Type: TypeDecimal},
			{Name: "balance_after", Type: TypeDecimal},
			{Name: "phone", Type: TypeShortString, Size: 30},
			{Name: "network", Type: TypeShortString, Size: 50},
			{Name: "product", Type: TypeShortString, Size: 50},
			{Name: "service_id", Type: TypeShortString, Size: 50},
			{Name: "customer_id", Type: TypeShortString, Size: 100},
			{Name: "reference", Type: TypeLongString, Size: 100},
			{Name: "order_id", Type: TypeLongString, Size: 120},
			{Name: "message", Type: TypeLongString, Size: 255},
			{Name: "gross_amount", Type: TypeDecimal},
			{Name: "fee", Type: TypeDecimal},
			{Name: "net_amount", Type: TypeDecimal},
			{Name: "transaction_ref", Type: TypeLongString, Size: 150},
			{Name: "extra", Type: TypeJSON},
			{Name: "created_at", Type: TypeTimestamp, Default: "now"},
		},
		Indexes: [][]string{{"uid", "date"}, {"request_id"}, {"type_id", "status_id"}},
	},
}
