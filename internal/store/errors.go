package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"
)

// IsWidthError reports whether err is a string-capacity violation, the one
// schema mismatch the engine corrects by widening once and retrying.
func IsWidthError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 22001: string data right truncation.
		return pqErr.Code == "22001"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "value too long") ||
		strings.Contains(msg, "string data right truncation")
}

// IsUnreachable reports whether err means the target connection is
// unusable. Such errors escalate a per-row failure to a fatal abort.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exceptions.
		return pqErr.Code.Class() == "08"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "database is closed")
}

// IsTimeout reports whether err is a per-row deadline expiry, counted as a
// row failure rather than a fatal abort when the connection survives.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
