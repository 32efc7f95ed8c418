package mapping

import (
	"github.com/mesh-intelligence/airlift/internal/source"

	"github.com/mesh-intelligence/airlift/pkg/types"
)

// Field aliases accepted for the account-details substructure. The export
// mixes camelCase and snake_case depending on which client wrote the record.
var (
	bankNameKeys      = []string{"bankName", "bank_name"}
	accountNumberKeys = []string{"accountNumber", "account_number"}
	accountNameKeys   = []string{"accountName", "account_name", "accountHolderName"}
	providerKeys      = []string{"provider", "reference"}
)

// FindAccountDetails performs a depth-first search of the user's object
// graph for the first object carrying all three required account keys
// (bank name, account number, account holder name), in document order.
// The first match wins; deeper or later matches are ignored. maxDepth
// bounds recursion; non-object values are dead ends. Returns nil when the
// graph holds no match.
func FindAccountDetails(n *source.Node, maxDepth int) *types.UserAccount {
	if maxDepth < 0 {
		return nil
	}
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case source.KindObject:
		if acct := accountFrom(n); acct != nil {
			return acct
		}
		for _, key := range n.Keys() {
			if acct := FindAccountDetails(n.Child(key), maxDepth-1); acct != nil {
				return acct
			}
		}
	case source.KindArray:
		for _, elem := range n.Elems() {
			if acct := FindAccountDetails(elem, maxDepth-1); acct != nil {
				return acct
			}
		}
	}
	return nil
}

// accountFrom extracts account details from n if it carries all three
// required keys with usable string values.
func accountFrom(n *source.Node) *types.UserAccount {
	bank, ok := firstString(n, bankNameKeys)
	if !ok {
		return nil
	}
	number, ok := firstString(n, accountNumberKeys)
	if !ok {
		return nil
	}
	holder, ok := firstString(n, accountNameKeys)
	if !ok {
		return nil
	}
	provider, _ := firstString(n, providerKeys)
	return &types.UserAccount{
		BankName:      bank,
		AccountNumber: number,
		AccountName:   holder,
		Provider:      provider,
	}
}

// firstString returns the first alias present on n with a coercible,
// non-empty string value.
func firstString(n *source.Node, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if s, ok := asString(n.Child(alias)); ok {
			return s, true
		}
	}
	return "", false
}
