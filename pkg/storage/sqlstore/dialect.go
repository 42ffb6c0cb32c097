package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL driver and placeholder style
type Dialect int

const (
	// DialectSQLite uses github.com/mattn/go-sqlite3 and ? placeholders
	DialectSQLite Dialect = iota
	// DialectPostgres uses github.com/lib/pq and $n placeholders
	DialectPostgres
)

// ParseDialect maps a storage type name to a Dialect
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3", "":
		return DialectSQLite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return 0, fmt.Errorf("unsupported storage type: %q", name)
	}
}

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// DriverName is the database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Rebind rewrites ? placeholders into the dialect's style. Queries are written
// with ? and never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
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
