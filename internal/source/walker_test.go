package source

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const walkerFixture = `{
  "users": {
    "u1": {
      "fullName": "Ann",
      "balance": 100,
      "referrals": ["u2", "u3"],
      "accountDetails": {"bankName": "GTB", "accountNumber": "001", "accountName": "Ann A"},
      "withdrawals": [null, {"amount": 350, "status": "pending"}],
      "transactions": {
        "t1": {"type": "airtime", "amount": 50},
        "t2": {"type": "data", "amount": 20}
      }
    },
    "u2": {"fullName": "Ben"}
  }
}`

func fixtureSource(t *testing.T) Source {
	t.Helper()
	root, err := Parse(strings.NewReader(walkerFixture))
	require.NoError(t, err)
	return NewStaticSource(root)
}

func TestWalkerDecomposition(t *testing.T) {
	w := NewWalker(fixtureSource(t))
	bundles, err := w.Bundles(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	b := bundles[0]
	assert.Equal(t, "u1", b.Key)
	require.NotNil(t, b.Record)
	assert.NotNil(t, b.Record.Child("withdrawals"), "the record keeps the full graph")

	// Subcollections are split out of the flat fields.
	assert.Equal(t, []string{"fullName", "balance", "referrals", "accountDetails"}, b.Flat.Keys())
	require.Contains(t, b.Collections, "withdrawals")
	require.Contains(t, b.Collections, "transactions")

	// Array collections skip null holes and key children by index.
	wd := b.Collections["withdrawals"]
	require.Len(t, wd, 1)
	assert.Equal(t, "1", wd[0].Key)
	assert.False(t, wd[0].Keyed)

	// Keyed collections preserve source keys and order.
	tx := b.Collections["transactions"]
	require.Len(t, tx, 2)
	assert.Equal(t, "t1", tx[0].Key)
	assert.Equal(t, "t2", tx[1].Key)
	assert.True(t, tx[0].Keyed)

	// A record with no subcollections yields an empty Collections map.
	assert.Empty(t, bundles[1].Collections)
}

func TestWalkerScalarArrayStaysFlat(t *testing.T) {
	w := NewWalker(fixtureSource(t))
	bundles, err := w.Bundles(context.Background(), "users")
	require.NoError(t, err)

	// referrals is an array of strings, not a subcollection.
	referrals := bundles[0].Flat.Child("referrals")
	require.NotNil(t, referrals)
	assert.Equal(t, KindArray, referrals.Kind())

	// accountDetails is an object of scalars and stays flat for the
	// structural search to find.
	assert.NotNil(t, bundles[0].Flat.Child("accountDetails"))
}

func TestWalkerAbsentRoot(t *testing.T) {
	w := NewWalker(fixtureSource(t))

	bundles, err := w.Bundles(context.Background(), "disabled_plans")
	require.NoError(t, err)
	assert.Nil(t, bundles)

	// Navigating through a scalar is absent, not an error.
	bundles, err = w.Bundles(context.Background(), "users/u1/fullName/deeper")
	require.NoError(t, err)
	assert.Nil(t, bundles)
}

func TestWalkerDeterministicOrder(t *testing.T) {
	w := NewWalker(fixtureSource(t))
	first, err := w.Bundles(context.Background(), "users")
	require.NoError(t, err)
	second, err := w.Bundles(context.Background(), "users")
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
	}
}

func TestWalkerKeepsCorruptCollectionChildren(t *testing.T) {
	doc := `{"users": {"u1": {
		"transactions": {"t1": {"amount": 5}, "t2": "corrupt"},
		"withdrawals": [{"amount": 10}, "junk"]
	}}}`
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	w := NewWalker(NewStaticSource(root))
	bundles, err := w.Bundles(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	// A corrupt sibling must not reclassify the collection and swallow the
	// valid records; it stays a child for per-record rejection downstream.
	tx := bundles[0].Collections["transactions"]
	require.Len(t, tx, 2)
	assert.Equal(t, KindObject, tx[0].Node.Kind())
	assert.Equal(t, "t2", tx[1].Key)
	assert.Equal(t, KindScalar, tx[1].Node.Kind())

	wd := bundles[0].Collections["withdrawals"]
	require.Len(t, wd, 2)
	assert.Equal(t, KindObject, wd[0].Node.Kind())
	assert.Equal(t, KindScalar, wd[1].Node.Kind())
}

func TestWalkerMalformedRecord(t *testing.T) {
	root, err := Parse(strings.NewReader(`{"users": {"u1": "not a record"}}`))
	require.NoError(t, err)

	w := NewWalker(NewStaticSource(root))
	bundles, err := w.Bundles(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	// The walker passes malformed records through; the mapper rejects them.
	assert.Equal(t, KindScalar, bundles[0].Flat.Kind())
}

func TestFileSource(t *testing.T) {
	t.Run("missing file is unreachable", func(t *testing.T) {
		src := NewFileSource("does-not-exist.json")
		_, err := src.ReadSubtree(context.Background(), "users")
		assert.ErrorIs(t, err, ErrUnreachable)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src := NewFileSource("does-not-exist.json")
		_, err := src.ReadSubtree(ctx, "users")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
