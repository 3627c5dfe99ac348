package vectorstore

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/yugabyte/yb-vectorstore/v1/observability"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

// FXModule provides a *Store for the table named in Config.
//
// Dependencies required by this module:
//   - vectorstore.Config
//   - *ybengine.Engine
//   - vectorstore.Embedder
//   - vectorstore.Logger
//   - observability.Observer (optional)
//   - vectorstore.Tracer (optional)
var FXModule = fx.Module("vectorstore",
	fx.Provide(
		NewStoreWithDI,
	),
)

const createTimeout = 30 * time.Second

// StoreParams groups the dependencies for NewStoreWithDI.
type StoreParams struct {
	fx.In

	Config   Config
	Engine   *ybengine.Engine
	Embedder Embedder
	Logger   Logger
	Observer observability.Observer `optional:"true"`
	Tracer   Tracer                 `optional:"true"`
}

// NewStoreWithDI creates the table first when Config.InitTable is set and it
// is missing, then validates it and returns the store.
func NewStoreWithDI(params StoreParams) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), createTimeout)
	defer cancel()

	cfg := params.Config
	if cfg.InitTable {
		if err := ensureTable(ctx, params.Engine, cfg); err != nil {
			return nil, err
		}
	}

	opts := append(cfg.Options(), WithLogger(params.Logger))
	if params.Observer != nil {
		opts = append(opts, WithObserver(params.Observer))
	}
	if params.Tracer != nil {
		opts = append(opts, WithTracer(params.Tracer))
	}
	return Create(ctx, params.Engine, params.Embedder, cfg.TableName, opts...)
}

func ensureTable(ctx context.Context, engine *ybengine.Engine, cfg Config) error {
	columns, err := engine.TableColumns(ctx, cfg.TableName, cfg.SchemaName)
	if err != nil {
		return err
	}
	if len(columns) > 0 {
		return nil
	}
	if cfg.VectorSize <= 0 {
		return configErr("", "vector size is required to create the table")
	}

	table := ybengine.DefaultTableOptions(cfg.TableName, cfg.VectorSize)
	table.SchemaName = cfg.SchemaName
	if cfg.IDColumn != "" {
		table.IDColumn.Name = cfg.IDColumn
	}
	if cfg.ContentColumn != "" {
		table.ContentColumn = cfg.ContentColumn
	}
	if cfg.EmbeddingColumn != "" {
		table.EmbeddingColumn = cfg.EmbeddingColumn
	}
	if cfg.MetadataJSONColumn != "" {
		table.MetadataJSONColumn = cfg.MetadataJSONColumn
	}
	for _, name := range cfg.MetadataColumns {
		table.MetadataColumns = append(table.MetadataColumns, ybengine.Column{Name: name, DataType: "TEXT"})
	}
	return engine.InitVectorstoreTable(ctx, table)
}
