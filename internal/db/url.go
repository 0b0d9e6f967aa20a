package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/vvka-141/netres/pkg/netres"
)

// defaultPorts are used when a database URL omits the port.
var defaultPorts = map[string]int{
	"postgresql": 5432,
	"redis":      6379,
	"rediss":     6379,
	"clickhouse": 9000,
	"mysql":      3306,
	"mongodb":    27017,
}

// Target is a parsed, driver-agnostic database URL.
type Target struct {
	// Scheme is the bare scheme with "postgres" folded to "postgresql".
	Scheme string

	// Driver is the suffix stripped during normalization ("asyncpg" in
	// "postgresql+asyncpg://"). Empty when the URL was already bare.
	Driver string

	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Params holds the first value of each query parameter.
	Params map[string]string
}

// Normalize strips a driver suffix from a URL scheme so the result can be
// handed to a low-level driver:
//
//	postgresql+asyncpg://u:p@h:5432/d  ->  postgresql://u:p@h:5432/d
//
// Normalize is idempotent. Strings without a scheme are returned unchanged.
func Normalize(raw string) string {
	scheme, rest, ok := splitScheme(raw)
	if !ok {
		return raw
	}
	if i := strings.IndexByte(scheme, '+'); i > 0 {
		return scheme[:i] + rest
	}
	return raw
}

// splitScheme returns the scheme and the remainder starting at "://".
func splitScheme(raw string) (scheme, rest string, ok bool) {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return "", "", false
	}
	scheme = raw[:i]
	if strings.ContainsAny(scheme, "/@?#:") {
		return "", "", false
	}
	return scheme, raw[i:], true
}

// Parse normalizes and parses a database URL.
// Format: scheme[+driver]://[user[:password]@][host][:port][/dbname][?param1=value1&...]
func Parse(raw string) (*Target, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("database URL is empty: %w", netres.ErrInvalidConfig)
	}

	scheme, _, ok := splitScheme(raw)
	if !ok {
		return nil, fmt.Errorf("database URL has no scheme: %w", netres.ErrInvalidConfig)
	}

	t := &Target{Params: make(map[string]string)}
	if i := strings.IndexByte(scheme, '+'); i > 0 {
		t.Driver = scheme[i+1:]
	}

	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %v: %w", err, netres.ErrInvalidConfig)
	}

	t.Scheme = strings.ToLower(u.Scheme)
	if t.Scheme == "postgres" {
		t.Scheme = "postgresql"
	}

	t.Host = "localhost"
	if u.Hostname() != "" {
		t.Host = u.Hostname()
	}

	t.Port = defaultPorts[t.Scheme]
	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q: %w", u.Port(), netres.ErrInvalidConfig)
		}
		t.Port = port
	}
	if t.Port == 0 {
		return nil, fmt.Errorf("no port given and no default for scheme %q: %w", t.Scheme, netres.ErrInvalidConfig)
	}

	if u.User != nil {
		t.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			t.Password = pass
		}
	}

	if len(u.Path) > 1 {
		t.Database = strings.TrimPrefix(u.Path, "/")
	}

	for key, values := range u.Query() {
		if len(values) > 0 {
			t.Params[key] = values[0]
		}
	}

	return t, nil
}

// Address returns host:port for TCP-level checks.
func (t *Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// OperationID keys the attempt log: db_<scheme>_<host>_<port>.
func (t *Target) OperationID() string {
	return fmt.Sprintf("db_%s_%s_%d", t.Scheme, t.Host, t.Port)
}

// URL rebuilds the bare-scheme connection URL for drivers.
func (t *Target) URL() string {
	return t.build(false)
}

// Redacted returns the URL with the password masked, for logs.
func (t *Target) Redacted() string {
	return t.build(true)
}

func (t *Target) build(redact bool) string {
	u := &url.URL{
		Scheme: t.Scheme,
		Host:   t.Address(),
	}
	if t.Database != "" {
		u.Path = "/" + t.Database
	}

	if t.Username != "" {
		switch {
		case t.Password != "" && redact:
			u.User = url.UserPassword(t.Username, "xxxxx")
		case t.Password != "":
			u.User = url.UserPassword(t.Username, t.Password)
		default:
			u.User = url.User(t.Username)
		}
	} else if t.Password != "" {
		// redis://:password@host form
		pass := t.Password
		if redact {
			pass = "xxxxx"
		}
		u.User = url.UserPassword("", pass)
	}

	query := url.Values{}
	for key, value := range t.Params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	return u.String()
}
