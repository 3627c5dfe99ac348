package ybengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ColumnInfo is one column as declared in the live catalog.
type ColumnInfo struct {
	Name string
	// DataType is the declared type, e.g. "text", "vector(768)" or
	// "character varying(255)".
	DataType string
}

const postgresColumnsQuery = `
SELECT a.attname AS column_name,
       format_type(a.atttypid, a.atttypmod) AS data_type
FROM pg_attribute a
JOIN pg_class c ON c.oid = a.attrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE c.relname = ?
  AND n.nspname = ?
  AND a.attnum > 0
  AND NOT a.attisdropped
ORDER BY a.attnum`

// TableColumns returns the columns of table in declaration order. A missing
// table yields an empty slice and no error.
func (e *Engine) TableColumns(ctx context.Context, table, schema string) ([]ColumnInfo, error) {
	if schema == "" {
		schema = e.DefaultSchema()
	}

	var columns []ColumnInfo
	err := e.Connect(ctx, func(conn *Conn) error {
		var err error
		columns, err = conn.TableColumns(table, schema)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ybengine: read catalog for %s: %w", QualifiedName(schema, table), err)
	}
	return columns, nil
}

// TableColumns reads the catalog over this connection. The query depends on
// the dialect: pg_attribute for PostgreSQL-family databases, PRAGMA
// table_info for SQLite and gorm's migrator for anything else.
func (c *Conn) TableColumns(table, schema string) ([]ColumnInfo, error) {
	switch c.engine.dialect {
	case dialectPostgres:
		rows, err := c.Query(postgresColumnsQuery, table, schema)
		if err != nil {
			return nil, err
		}
		return columnsFromRows(rows, "column_name", "data_type"), nil

	case dialectSQLite:
		stmt := "PRAGMA table_info(" + pq.QuoteIdentifier(table) + ")"
		if schema != "" {
			stmt = "PRAGMA " + pq.QuoteIdentifier(schema) + ".table_info(" + pq.QuoteIdentifier(table) + ")"
		}
		rows, err := c.Query(stmt)
		if err != nil {
			return nil, err
		}
		return columnsFromRows(rows, "name", "type"), nil

	default:
		name := table
		if schema != "" {
			name = schema + "." + table
		}
		if !c.db.Migrator().HasTable(name) {
			return nil, nil
		}
		types, err := c.db.Migrator().ColumnTypes(name)
		if err != nil {
			return nil, err
		}
		out := make([]ColumnInfo, 0, len(types))
		for _, ct := range types {
			out = append(out, ColumnInfo{Name: ct.Name(), DataType: ct.DatabaseTypeName()})
		}
		return out, nil
	}
}

func columnsFromRows(rows []map[string]any, nameKey, typeKey string) []ColumnInfo {
	out := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, ColumnInfo{
			Name:     asString(row[nameKey]),
			DataType: strings.TrimSpace(asString(row[typeKey])),
		})
	}
	return out
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
