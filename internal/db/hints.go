package db

import (
	"fmt"
	"strings"
)

// Hint returns actionable guidance for a failed database check, or "" when
// the error is not recognized. errText is the failure message from the check.
func Hint(errText string, t *Target) string {
	errStr := strings.ToLower(errText)
	addr := t.Address()

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Sprintf(`Possible causes:
  - %s is not running on %s
  - Wrong host or port
  - Firewall blocking the connection`, t.Scheme, addr)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "name or service not known"):
		return fmt.Sprintf(`Cannot resolve host %q. Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable`, t.Host)

	case strings.Contains(errStr, "password authentication failed") || strings.Contains(errStr, "wrongpass"):
		return `Possible causes:
  - Wrong password (check $PGPASSWORD, ~/.pgpass or the URL)
  - Wrong username`

	case strings.Contains(errStr, "noauth"):
		return "Redis requires a password; add it to the URL as redis://:password@host"

	case strings.Contains(errStr, "does not exist"):
		return fmt.Sprintf(`Database %q does not exist. To create it:
  createdb -h %s -p %d %s`, t.Database, t.Host, t.Port, t.Database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Sprintf(`Connection to %s timed out. Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)`, addr)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls:") || strings.Contains(errStr, "certificate"):
		return `SSL/TLS error. Possible causes:
  - Server requires SSL but sslmode is wrong
  - Certificate verification failed (try sslmode=require)`

	case strings.Contains(errStr, "too many connections") || strings.Contains(errStr, "too many clients"):
		return fmt.Sprintf("Server at %s has reached max_connections; check for stale connections", addr)
	}

	return ""
}
