package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTransient reports whether err looks like a database that is not ready
// yet: refused or reset connections, dial timeouts, a Postgres server still
// starting, or a locked SQLite file.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 57P03 cannot_connect_now, 53300 too_many_connections
		return pgErr.Code == "57P03" || pgErr.Code == "53300"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection refused",
		"connection reset by peer",
		"database is locked",
		"i/o timeout",
		"no such host",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
