package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/airlift/pkg/types"
)

// dialect renders the declarative schema and query placeholders for one
// database engine.
type dialect struct {
	name       string
	driverName string // name registered with database/sql
}

var (
	sqliteDialect   = dialect{name: types.DriverSQLite, driverName: "sqlite"}
	postgresDialect = dialect{name: types.DriverPostgres, driverName: "postgres"}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case types.DriverSQLite:
		return sqliteDialect, nil
	case types.DriverPostgres:
		return postgresDialect, nil
	}
	return dialect{}, types.ErrDriverUnknown
}

// columnType renders the SQL type for a column.
func (d dialect) columnType(c Column) string {
	if d.name == types.DriverSQLite {
		switch c.Type {
		case TypeSerial:
			return "INTEGER"
		case TypeCode:
			return "INTEGER"
		case TypeBool:
			return "INTEGER"
		default:
			// Identifiers, strings, decimals, timestamps, and JSON all
			// store as TEXT. Decimals must not get NUMERIC affinity: sqlite
			// coerces such text to REAL once the first 15 significant
			// digits survive, truncating anything longer.
			return "TEXT"
		}
	}
	switch c.Type {
	case TypeSerial:
		return "BIGSERIAL"
	case TypeCode:
		return "SMALLINT"
	case TypeID, TypeShortString, TypeLongString:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case TypeDecimal:
		return "NUMERIC(14,2)"
	case TypeBool:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMPTZ"
	case TypeJSON:
		return "JSONB"
	}
	return "TEXT"
}

// columnDefault renders the DEFAULT clause value, empty when none applies.
func (d dialect) columnDefault(c Column) string {
	switch c.Default {
	case "":
		return ""
	case "now":
		if d.name == types.DriverSQLite {
			return "CURRENT_TIMESTAMP"
		}
		return "now()"
	case "false":
		if d.name == types.DriverSQLite {
			return "0"
		}
		return "false"
	default:
		return c.Default
	}
}

// createTable renders CREATE TABLE IF NOT EXISTS for t.
func (d dialect) createTable(t TableSpec) string {
	var defs []string
	for _, c := range t.Columns {
		parts := []string{c.Name, d.columnType(c)}
		if c.PK {
			parts = append(parts, "PRIMARY KEY")
			if c.Type == TypeSerial && d.name == types.DriverSQLite {
				parts = append(parts, "AUTOINCREMENT")
			}
		}
		if c.NotNull && !c.PK {
			parts = append(parts, "NOT NULL")
		}
		if c.Unique {
			parts = append(parts, "UNIQUE")
		}
		if def := d.columnDefault(c); def != "" {
			parts = append(parts, "DEFAULT", def)
		}
		if c.Ref != "" {
			parts = append(parts, "REFERENCES", c.Ref)
		}
		defs = append(defs, "    "+strings.Join(parts, " "))
	}
	for _, cols := range t.Uniques {
		defs = append(defs, "    UNIQUE ("+strings.Join(cols, ", ")+")")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", t.Name, strings.Join(defs, ",\n"))
}

// createIndexes renders CREATE INDEX IF NOT EXISTS statements for t.
func (d dialect) createIndexes(t TableSpec) []string {
	var stmts []string
	for _, cols := range t.Indexes {
		name := fmt.Sprintf("idx_%s_%s", t.Name, strings.Join(cols, "_"))
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, t.Name, strings.Join(cols, ", ")))
	}
	return stmts
}

// widenStatements renders the one-shot capacity upgrade for targets created
// before the declarative widths of SchemaVersion 2. Only engines with
// enforced VARCHAR capacities need it.
func (d dialect) widenStatements() []string {
	if d.name == types.DriverSQLite {
		return nil
	}
	var stmts []string
	for _, t := range Tables {
		for _, c := range t.Columns {
			switch c.Type {
			case TypeID, TypeShortString, TypeLongString:
				stmts = append(stmts, fmt.Sprintf(
					"ALTER TABLE %s ALTER COLUMN %s TYPE VARCHAR(%d)", t.Name, c.Name, c.Size))
			}
		}
	}
	return stmts
}

// rebind rewrites ? placeholders to the dialect's positional form.
func (d dialect) rebind(query string) string {
	if d.name != types.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
