package reldb

import (
	"fmt"
	"net/url"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// Driver imports are in connector.go.

// defaultPort returns the conventional port for a dialect.
func defaultPort(d domain.DBDialect) int {
	if d == domain.DialectSQLServer {
		return 1433
	}
	return 3306
}

// driverName maps a dialect to its database/sql driver.
func driverName(d domain.DBDialect) string {
	if d == domain.DialectSQLServer {
		return "sqlserver"
	}
	return "mysql"
}

// buildDSN constructs the driver connection string for a dialect.
func buildDSN(cfg *domain.DBConfig) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort(cfg.Dialect)
	}

	if cfg.Dialect == domain.DialectSQLServer {
		u := &url.URL{
			Scheme: "sqlserver",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		}
		q := url.Values{}
		q.Set("database", cfg.Database)
		u.RawQuery = q.Encode()
		return u.String()
	}

	// MySQL family.
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database)
}
