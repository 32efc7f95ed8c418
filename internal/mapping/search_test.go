package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/airlift/internal/source"
)

func accountNode() *source.Node {
	return source.Object().
		Set("bankName", source.Scalar("GTB")).
		Set("accountNumber", source.Scalar("001")).
		Set("accountName", source.Scalar("Ann A"))
}

func TestFindAccountDetailsAtDepths(t *testing.T) {
	tests := []struct {
		name string
		root func() *source.Node
	}{
		{
			name: "depth 0: keys on the record itself",
			root: func() *source.Node { return accountNode() },
		},
		{
			name: "depth 2",
			root: func() *source.Node {
				return source.Object().Set("profile", source.Object().Set("bank", accountNode()))
			},
		},
		{
			name: "depth 4",
			root: func() *source.Node {
				return source.Object().Set("a", source.Object().Set("b",
					source.Object().Set("c", source.Object().Set("d", accountNode()))))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := FindAccountDetails(tt.root(), 8)
			require.NotNil(t, acct)
			assert.Equal(t, "GTB", acct.BankName)
			assert.Equal(t, "001", acct.AccountNumber)
			assert.Equal(t, "Ann A", acct.AccountName)
		})
	}
}

func TestFindAccountDetailsFirstMatchWins(t *testing.T) {
	deeper := source.Object().
		Set("bankName", source.Scalar("Zenith")).
		Set("accountNumber", source.Scalar("999")).
		Set("accountName", source.Scalar("Other"))
	root := source.Object().
		Set("accountDetails", accountNode()).
		Set("legacy", source.Object().Set("account", deeper))

	acct := FindAccountDetails(root, 8)
	require.NotNil(t, acct)
	assert.Equal(t, "001", acct.AccountNumber, "document-order depth-first match wins")
}

func TestFindAccountDetailsDepthBound(t *testing.T) {
	root := source.Object().Set("a", source.Object().Set("b", accountNode()))

	assert.NotNil(t, FindAccountDetails(root, 2))
	assert.Nil(t, FindAccountDetails(root, 1), "match below the bound is ignored")
}

func TestFindAccountDetailsDeadEnds(t *testing.T) {
	tests := []struct {
		name string
		root *source.Node
	}{
		{"scalar root", source.Scalar("nope")},
		{"nil root", nil},
		{"no match anywhere", source.Object().Set("bankName", source.Scalar("GTB"))},
		{
			"incomplete keys are not a match",
			source.Object().Set("x", source.Object().
				Set("bankName", source.Scalar("GTB")).
				Set("accountNumber", source.Scalar("001"))),
		},
		{
			"empty values are not a match",
			source.Object().
				Set("bankName", source.Scalar("")).
				Set("accountNumber", source.Scalar("001")).
				Set("accountName", source.Scalar("Ann A")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, FindAccountDetails(tt.root, 8))
		})
	}
}

func TestFindAccountDetailsThroughArrays(t *testing.T) {
	root := source.Object().Set("banks", source.Array(
		source.Scalar("junk"),
		accountNode(),
	))
	acct := FindAccountDetails(root, 8)
	require.NotNil(t, acct)
	assert.Equal(t, "001", acct.AccountNumber)
}

func TestFindAccountDetailsAliasesAndCoercion(t *testing.T) {
	root := source.Object().
		Set("bank_name", source.Scalar("UBA")).
		Set("account_number", source.Scalar(json.Number("7000123"))).
		Set("account_name", source.Scalar("Ben B")).
		Set("provider", source.Scalar("monnify"))

	acct := FindAccountDetails(root, 8)
	require.NotNil(t, acct)
	assert.Equal(t, "UBA", acct.BankName)
	assert.Equal(t, "7000123", acct.AccountNumber, "numeric account numbers keep their literal form")
	assert.Equal(t, "monnify", acct.Provider)
}
