// Package mapping translates free-form source fields into the typed columns
// of the target schema: enumeration labels to integer codes, nested account
// substructures to rows, missing identifiers to synthesized ones, and
// everything unmapped into the extras blob.
package mapping

import (
	"fmt"
	"strings"
)

// EnumValue is one seeded row of a lookup table.
type EnumValue struct {
	Code  int16
	Label string
}

// Statuses is the closed status domain, codes as seeded in the target.
var Statuses = []EnumValue{
	{1, "success"},
	{2, "failed"},
	{3, "pending"},
	{4, "refunded"},
	{5, "processing"},
}

// TransactionTypes is the closed transaction-type domain.
var TransactionTypes = []EnumValue{
	{1, "airtime"},
	{2, "data"},
	{3, "tv"},
	{4, "epins"},
	{5, "deposit"},
	{6, "betting"},
	{7, "electricity"},
	{8, "withdrawal"},
	{9, "datacard"},
}

// EnumTable maps free-form labels to stable integer codes. Lookups are
// case-insensitive and ignore surrounding whitespace. A table may carry a
// fallback code returned for absent or unrecognized labels; without one,
// such labels map to no code.
type EnumTable struct {
	name     string
	codes    map[string]int16
	fallback *int16
}

func newEnumTable(name string, values []EnumValue) *EnumTable {
	t := &EnumTable{name: name, codes: make(map[string]int16, len(values))}
	for _, v := range values {
		t.codes[v.Label] = v.Code
	}
	return t
}

// NewStatusTable returns the status enumeration with fallback as the label
// substituted for absent or unknown statuses. The fallback must itself be a
// member of the status domain.
func NewStatusTable(fallback string) (*EnumTable, error) {
	t := newEnumTable("statuses", Statuses)
	code, ok := t.Lookup(fallback)
	if !ok {
		return nil, fmt.Errorf("fallback status %q is not in the status domain", fallback)
	}
	t.fallback = &code
	return t, nil
}

// NewTypeTable returns the transaction-type enumeration. It has no
// fallback: an unmapped type yields no code, which the target accepts
// as null.
func NewTypeTable() *EnumTable {
	return newEnumTable("transaction_types", TransactionTypes)
}

// Lookup returns the code for label and whether the label is a member of
// the domain. It does not apply the fallback.
func (t *EnumTable) Lookup(label string) (int16, bool) {
	code, ok := t.codes[strings.ToLower(strings.TrimSpace(label))]
	return code, ok
}

// Code resolves label to a code, applying the table's fallback for absent
// or unrecognized labels. The result is nil only for tables without a
// fallback.
func (t *EnumTable) Code(label string) *int16 {
	if code, ok := t.Lookup(label); ok {
		return &code
	}
	return t.fallback
}
