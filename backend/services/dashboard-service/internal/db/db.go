package db

import (
	"database/sql"
	"strconv"
	"strings"

	libdb "evdash/backend/libs/db"
)

// Dialect selects the SQL flavour used by repositories.
type Dialect string

const (
	Postgres Dialect = Dialect(libdb.DriverPostgres)
	SQLite   Dialect = Dialect(libdb.DriverSQLite)
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) Dialect {
	if driver == libdb.DriverSQLite {
		return SQLite
	}
	return Postgres
}

// Open connects using the shared pool helper.
func Open(driver, dsn string) (*sql.DB, error) {
	return libdb.Open(driver, dsn)
}

// Rebind rewrites ? placeholders into $N for Postgres. Queries must not contain
// literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
