package ybengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Column declares one table column for InitVectorstoreTable.
type Column struct {
	Name     string
	DataType string
	NotNull  bool
}

// TableOptions describes a vector store table.
type TableOptions struct {
	TableName  string
	VectorSize int

	// SchemaName defaults to the engine's default schema.
	SchemaName string

	// IDColumn defaults to langchain_id UUID.
	IDColumn        Column
	ContentColumn   string
	EmbeddingColumn string

	// MetadataColumns become nullable typed columns unless NotNull is set.
	MetadataColumns []Column

	// MetadataJSONColumn receives metadata keys that have no column of their
	// own. It is only created when StoreMetadata is true.
	MetadataJSONColumn string
	StoreMetadata      bool

	// OverwriteExisting drops the table first when it already exists.
	OverwriteExisting bool
}

const (
	DefaultIDColumn           = "langchain_id"
	DefaultIDType             = "UUID"
	DefaultContentColumn      = "content"
	DefaultEmbeddingColumn    = "embedding"
	DefaultMetadataJSONColumn = "langchain_metadata"
)

// DefaultTableOptions returns the conventional layout: a UUID id, text
// content, a vector embedding and a JSON metadata column.
func DefaultTableOptions(table string, vectorSize int) TableOptions {
	return TableOptions{
		TableName:          table,
		VectorSize:         vectorSize,
		IDColumn:           Column{Name: DefaultIDColumn, DataType: DefaultIDType},
		ContentColumn:      DefaultContentColumn,
		EmbeddingColumn:    DefaultEmbeddingColumn,
		MetadataJSONColumn: DefaultMetadataJSONColumn,
		StoreMetadata:      true,
	}
}

func (o *TableOptions) applyDefaults() {
	if o.IDColumn.Name == "" {
		o.IDColumn.Name = DefaultIDColumn
	}
	if o.IDColumn.DataType == "" {
		o.IDColumn.DataType = DefaultIDType
	}
	if o.ContentColumn == "" {
		o.ContentColumn = DefaultContentColumn
	}
	if o.EmbeddingColumn == "" {
		o.EmbeddingColumn = DefaultEmbeddingColumn
	}
	if o.StoreMetadata && o.MetadataJSONColumn == "" {
		o.MetadataJSONColumn = DefaultMetadataJSONColumn
	}
}

func (o TableOptions) validate() error {
	if o.TableName == "" {
		return errors.New("table name is required")
	}
	if o.VectorSize <= 0 {
		return fmt.Errorf("vector size must be positive, got %d", o.VectorSize)
	}
	seen := map[string]struct{}{}
	names := []string{o.IDColumn.Name, o.ContentColumn, o.EmbeddingColumn}
	for _, c := range o.MetadataColumns {
		names = append(names, c.Name)
	}
	if o.StoreMetadata {
		names = append(names, o.MetadataJSONColumn)
	}
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("column %q declared twice", name)
		}
		seen[name] = struct{}{}
	}
	for _, c := range o.MetadataColumns {
		if c.Name == "" || c.DataType == "" {
			return fmt.Errorf("metadata column needs a name and a type, got %+v", c)
		}
	}
	return nil
}

// QualifiedName quotes table, prefixed with the quoted schema when one is given.
func QualifiedName(schema, table string) string {
	if schema == "" {
		return pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// CreateTableSQL renders the CREATE TABLE statement for opts. Column types
// are emitted verbatim.
func CreateTableSQL(schema string, opts TableOptions) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(QualifiedName(schema, opts.TableName))
	b.WriteString(" (\n")

	defs := []string{
		fmt.Sprintf("%s %s PRIMARY KEY", pq.QuoteIdentifier(opts.IDColumn.Name), opts.IDColumn.DataType),
		fmt.Sprintf("%s TEXT NOT NULL", pq.QuoteIdentifier(opts.ContentColumn)),
		fmt.Sprintf("%s vector(%d) NOT NULL", pq.QuoteIdentifier(opts.EmbeddingColumn), opts.VectorSize),
	}
	for _, c := range opts.MetadataColumns {
		def := fmt.Sprintf("%s %s", pq.QuoteIdentifier(c.Name), c.DataType)
		if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	if opts.StoreMetadata {
		defs = append(defs, fmt.Sprintf("%s JSON", pq.QuoteIdentifier(opts.MetadataJSONColumn)))
	}

	b.WriteString("  ")
	b.WriteString(strings.Join(defs, ",\n  "))
	b.WriteString("\n)")
	return b.String()
}

// InitVectorstoreTable creates a table laid out for a vector store. On
// PostgreSQL-family databases the vector extension is enabled first.
//
// Example:
//
//	opts := ybengine.DefaultTableOptions("documents", 768)
//	opts.MetadataColumns = []ybengine.Column{{Name: "source", DataType: "TEXT"}}
//	if err := engine.InitVectorstoreTable(ctx, opts); err != nil {
//	    return err
//	}
func (e *Engine) InitVectorstoreTable(ctx context.Context, opts TableOptions) error {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return fmt.Errorf("ybengine: invalid table options: %w", err)
	}

	schema := opts.SchemaName
	if schema == "" {
		schema = e.DefaultSchema()
	}
	start := time.Now()

	err := e.Connect(ctx, func(conn *Conn) error {
		if e.dialect == dialectPostgres {
			if _, err := conn.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
				return fmt.Errorf("enable vector extension: %w", err)
			}
		}
		if opts.OverwriteExisting {
			if _, err := conn.Exec("DROP TABLE IF EXISTS " + QualifiedName(schema, opts.TableName)); err != nil {
				return fmt.Errorf("drop existing table: %w", err)
			}
		}
		_, err := conn.Exec(CreateTableSQL(schema, opts))
		return err
	})

	e.observe("init_table", opts.TableName, start, err, 0)
	if err != nil {
		return err
	}

	e.logger.Info("vector store table created", nil, map[string]interface{}{
		"schema":      schema,
		"table":       opts.TableName,
		"vector_size": opts.VectorSize,
	})
	return nil
}

// DropTable removes the table if it exists.
func (e *Engine) DropTable(ctx context.Context, table, schema string) error {
	if schema == "" {
		schema = e.DefaultSchema()
	}
	start := time.Now()

	err := e.Connect(ctx, func(conn *Conn) error {
		_, err := conn.Exec("DROP TABLE IF EXISTS " + QualifiedName(schema, table))
		return err
	})

	e.observe("drop_table", table, start, err, 0)
	return err
}

// Exec runs a single statement on a pooled connection.
func (e *Engine) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	var affected int64
	start := time.Now()

	err := e.Connect(ctx, func(conn *Conn) error {
		var err error
		affected, err = conn.Exec(sql, args...)
		return err
	})

	e.observe("exec", "", start, err, affected)
	return affected, err
}
