package storage

import (
	"net/url"
	"strings"
)

// NewStore picks a backend from the config string: PostgreSQL connection
// strings get the postgres store, anything else is treated as a SQLite
// file path.
func NewStore(config string) Provider {
	if IsPostgres(config) {
		return NewPostgresStore(config)
	}
	return NewSQLiteStore(config)
}

// IsPostgres reports whether the config string looks like a PostgreSQL
// connection string rather than a SQLite file path.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password. Credentials belong in the environment or .pgpass,
// never in flags that end up in process listings.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	if u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}
