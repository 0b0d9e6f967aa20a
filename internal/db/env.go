package db

import (
	"fmt"
	"net/url"
	"os"
)

// EnvVars holds the connection environment variables netres understands.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	DATABASE_URL string // Full connection string (Heroku/Rails convention)
	REDIS_URL    string // Full Redis URL

	PGHOST     string // PostgreSQL server host
	PGPORT     string // PostgreSQL server port
	PGUSER     string // PostgreSQL username
	PGPASSWORD string // PostgreSQL password
	PGDATABASE string // Database name
}

// LoadFromEnvironment reads the supported environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		DATABASE_URL: os.Getenv("DATABASE_URL"),
		REDIS_URL:    os.Getenv("REDIS_URL"),
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
	}
}

// DatabaseURLs returns the database URLs implied by the environment.
// DATABASE_URL wins over the PG* variables; PG* are used only when PGHOST is set.
func (e *EnvVars) DatabaseURLs() []string {
	var urls []string

	switch {
	case e.DATABASE_URL != "":
		urls = append(urls, e.DATABASE_URL)
	case e.PGHOST != "":
		urls = append(urls, e.libpqURL())
	}

	if e.REDIS_URL != "" {
		urls = append(urls, e.REDIS_URL)
	}
	return urls
}

func (e *EnvVars) libpqURL() string {
	host := e.PGHOST
	if e.PGPORT != "" {
		host = fmt.Sprintf("%s:%s", e.PGHOST, e.PGPORT)
	}

	u := &url.URL{Scheme: "postgresql", Host: host}
	if e.PGDATABASE != "" {
		u.Path = "/" + e.PGDATABASE
	}
	if e.PGUSER != "" {
		if e.PGPASSWORD != "" {
			u.User = url.UserPassword(e.PGUSER, e.PGPASSWORD)
		} else {
			u.User = url.User(e.PGUSER)
		}
	}
	return u.String()
}
