package vectorstore

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/yugabyte/yb-vectorstore/v1/logger"
	"github.com/yugabyte/yb-vectorstore/v1/observability"
	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

// Logger defines the logging contract of the store.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Tracer starts spans around store operations. *tracer.Tracer satisfies it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// createKey is the capability only Create holds. newStore refuses to build a
// Store without it.
type createKey struct{ _ byte }

var factoryKey = &createKey{}

// Store is a vector store over one validated table. It is safe for
// concurrent use; every operation checks a connection out of the engine's
// shared pool for its own duration.
//
// The zero Store is unusable: every method returns ErrConstructionMisuse.
// Build stores with Create.
type Store struct {
	key      *createKey
	engine   *ybengine.Engine
	embedder Embedder
	schema   Schema
	opts     Options
	operator string

	logger   Logger
	observer observability.Observer
	tracer   Tracer
}

var _ vectordb.Service = (*Store)(nil)

// Create validates table against the live catalog and returns a Store bound
// to the validated layout. A column setting that is invalid, missing
// or conflicting yields a *ConfigurationError; no row is read or written
// before validation succeeds.
//
// Example:
//
//	store, err := vectorstore.Create(ctx, engine, embedder, "documents",
//	    vectorstore.WithMetadataColumns("page", "source"),
//	)
//	if err != nil {
//	    return err
//	}
//	ids, err := store.AddTexts(ctx, []string{"foo", "bar"}, nil, nil)
func Create(ctx context.Context, engine *ybengine.Engine, embedder Embedder, table string, opts ...Option) (*Store, error) {
	if engine == nil {
		return nil, configErr("", "engine is required")
	}
	if embedder == nil {
		return nil, configErr("", "embedder is required")
	}
	if table == "" {
		return nil, configErr("", "table name is required")
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.SchemaName == "" {
		options.SchemaName = engine.DefaultSchema()
	}
	if err := options.check(); err != nil {
		return nil, err
	}

	catalog, err := engine.TableColumns(ctx, table, options.SchemaName)
	if err != nil {
		return nil, err
	}

	schema, err := validate(table, catalog, options)
	if err != nil {
		return nil, err
	}

	store, err := newStore(factoryKey, engine, embedder, schema, options)
	if err != nil {
		return nil, err
	}

	store.logger.Info("vector store ready", nil, map[string]interface{}{
		"table":            schema.TableName,
		"schema":           schema.SchemaName,
		"metadata_columns": schema.MetadataColumnNames(),
		"metadata_json":    schema.MetadataJSONColumn,
		"dimension":        schema.Dimension,
	})
	return store, nil
}

func newStore(key *createKey, engine *ybengine.Engine, embedder Embedder, schema Schema, opts Options) (*Store, error) {
	if key != factoryKey {
		return nil, ErrConstructionMisuse
	}

	operator, err := opts.DistanceStrategy.Operator()
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Store{
		key:      key,
		engine:   engine,
		embedder: embedder,
		schema:   schema,
		opts:     opts,
		operator: operator,
		logger:   log,
		observer: opts.Observer,
		tracer:   opts.Tracer,
	}, nil
}

func (s *Store) ready() error {
	if s == nil || s.key != factoryKey {
		return ErrConstructionMisuse
	}
	return nil
}

// Schema returns the validated table layout.
func (s *Store) Schema() Schema {
	if s == nil {
		return Schema{}
	}
	return s.schema
}

// Columns returns every column the store reads and writes.
func (s *Store) Columns() []string {
	if s.ready() != nil {
		return nil
	}
	return s.schema.ColumnNames()
}

// MetadataColumns returns the declared columns mapped to metadata keys.
func (s *Store) MetadataColumns() []string {
	if s.ready() != nil {
		return nil
	}
	return s.schema.MetadataColumnNames()
}

// String identifies the store in logs.
func (s *Store) String() string {
	if s.ready() != nil {
		return "vectorstore(invalid)"
	}
	return fmt.Sprintf("vectorstore(%s)", s.schema.QualifiedTable())
}
