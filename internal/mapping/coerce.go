package mapping

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/airlift/internal/source"
)

// Scalar coercions. The source is schemaless: amounts arrive as numbers or
// numeric strings, flags as booleans or "true"/1, timestamps as epoch
// milliseconds. Each helper reports whether a value was usable; absence and
// unusable shapes are indistinguishable to callers by design.

// asString coerces a scalar node to its string form. Numbers keep their
// literal representation, which matters for identifiers with leading zeros.
func asString(n *source.Node) (string, bool) {
	if n == nil || n.Kind() != source.KindScalar {
		return "", false
	}
	switch v := n.Value().(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// asDecimal coerces a scalar node to a monetary amount. The json.Number
// literal goes straight into a decimal so amounts never pass through
// float64 on their way to the target.
func asDecimal(n *source.Node) (decimal.Decimal, bool) {
	if n == nil || n.Kind() != source.KindScalar {
		return decimal.Decimal{}, false
	}
	switch v := n.Value().(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// asBool coerces a scalar node to a flag. Unrecognized shapes are false.
func asBool(n *source.Node) bool {
	if n == nil || n.Kind() != source.KindScalar {
		return false
	}
	switch v := n.Value().(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case json.Number:
		i, err := v.Int64()
		return err == nil && i != 0
	}
	return false
}

// asTime coerces a scalar node to a timestamp. Numbers are epoch
// milliseconds (epoch seconds below a year-5138 millisecond floor);
// strings are tried as RFC 3339, then as a numeric epoch.
func asTime(n *source.Node) (time.Time, bool) {
	if n == nil || n.Kind() != source.KindScalar {
		return time.Time{}, false
	}
	switch v := n.Value().(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(i), true
	case string:
		s := strings.TrimSpace(v)
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.UTC(), true
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromEpoch(i), true
		}
	}
	return time.Time{}, false
}

// epochMillisFloor separates epoch seconds from epoch milliseconds; values
// below it are seconds.
const epochMillisFloor = int64(1e11)

func fromEpoch(i int64) time.Time {
	if i < epochMillisFloor {
		return time.Unix(i, 0).UTC()
	}
	return time.UnixMilli(i).UTC()
}
