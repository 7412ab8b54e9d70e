package store

import (
	_ "embed"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Driver names accepted by OpenDSN and New.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// dialect captures the SQL differences between the supported drivers.
type dialect struct {
	name string

	// schema is the idempotent DDL applied by Init.
	schema string

	// forUpdate is appended to entity reads that precede a write.
	forUpdate string

	// numbered is true when placeholders are $1, $2, ... instead of ?.
	numbered bool
}

var (
	sqliteDialect = dialect{
		name:   DriverSQLite,
		schema: sqliteSchema,
	}
	postgresDialect = dialect{
		name:      DriverPostgres,
		schema:    postgresSchema,
		forUpdate: " FOR UPDATE",
		numbered:  true,
	}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect, nil
	case DriverPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, errors.New("unsupported driver " + strconv.Quote(driver))
	}
}

// rebind rewrites ? placeholders into the dialect's form.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}
