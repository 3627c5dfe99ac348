package vectorstore

import (
	"fmt"

	"github.com/yugabyte/yb-vectorstore/v1/observability"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

// DistanceStrategy selects the pgvector distance operator used for ranking.
type DistanceStrategy string

const (
	// Cosine ranks by cosine distance (<=>). It is the default.
	Cosine DistanceStrategy = "cosine"
	// Euclidean ranks by L2 distance (<->).
	Euclidean DistanceStrategy = "euclidean"
	// InnerProduct ranks by negative inner product (<#>).
	InnerProduct DistanceStrategy = "inner_product"
)

// Operator returns the SQL operator for the strategy.
func (d DistanceStrategy) Operator() (string, error) {
	switch d {
	case Cosine, "":
		return "<=>", nil
	case Euclidean:
		return "<->", nil
	case InnerProduct:
		return "<#>", nil
	default:
		return "", configErr("", fmt.Sprintf("unknown distance strategy %q", string(d)))
	}
}

const (
	DefaultContentColumn      = ybengine.DefaultContentColumn
	DefaultEmbeddingColumn    = ybengine.DefaultEmbeddingColumn
	DefaultIDColumn           = ybengine.DefaultIDColumn
	DefaultMetadataJSONColumn = ybengine.DefaultMetadataJSONColumn

	DefaultK          = 4
	DefaultFetchK     = 20
	DefaultLambdaMult = 0.5

	defaultEmbedBatchSize   = 64
	defaultEmbedConcurrency = 4
)

// Options configures a Store. Build it with DefaultOptions and Option
// functions; Create does that for you.
type Options struct {
	SchemaName      string
	IDColumn        string
	ContentColumn   string
	EmbeddingColumn string

	// MetadataColumns is the allow-list of columns exposed as metadata.
	MetadataColumns []string
	// IgnoreMetadataColumns is the deny-list: every other column becomes
	// metadata. Mutually exclusive with MetadataColumns. A nil list is
	// "not given"; an empty one maps every remaining column.
	IgnoreMetadataColumns []string

	// MetadataJSONColumn holds metadata keys without a column of their own.
	// Empty disables it.
	MetadataJSONColumn string

	DistanceStrategy DistanceStrategy
	K                int
	FetchK           int
	LambdaMult       float64

	// EmbedBatchSize is the number of texts per embedder call in AddTexts.
	EmbedBatchSize int
	// EmbedConcurrency bounds concurrent embedder calls in AddTexts.
	EmbedConcurrency int

	Logger   Logger
	Observer observability.Observer
	Tracer   Tracer

	jsonColumnExplicit bool
}

// Option customizes Options.
type Option func(*Options)

// DefaultOptions returns the column names and search parameters used when
// no Option overrides them.
func DefaultOptions() Options {
	return Options{
		IDColumn:           DefaultIDColumn,
		ContentColumn:      DefaultContentColumn,
		EmbeddingColumn:    DefaultEmbeddingColumn,
		MetadataJSONColumn: DefaultMetadataJSONColumn,
		DistanceStrategy:   Cosine,
		K:                  DefaultK,
		FetchK:             DefaultFetchK,
		LambdaMult:         DefaultLambdaMult,
		EmbedBatchSize:     defaultEmbedBatchSize,
		EmbedConcurrency:   defaultEmbedConcurrency,
	}
}

// WithSchemaName sets the schema of the table. Empty means the engine's
// default schema.
func WithSchemaName(schema string) Option {
	return func(o *Options) { o.SchemaName = schema }
}

// WithIDColumn names the primary key column.
func WithIDColumn(name string) Option {
	return func(o *Options) { o.IDColumn = name }
}

// WithContentColumn names the text column holding document content.
func WithContentColumn(name string) Option {
	return func(o *Options) { o.ContentColumn = name }
}

// WithEmbeddingColumn names the vector column.
func WithEmbeddingColumn(name string) Option {
	return func(o *Options) { o.EmbeddingColumn = name }
}

// WithMetadataColumns sets the allow-list of metadata columns.
func WithMetadataColumns(names ...string) Option {
	return func(o *Options) { o.MetadataColumns = append([]string{}, names...) }
}

// WithIgnoreMetadataColumns sets the deny-list of metadata columns.
func WithIgnoreMetadataColumns(names ...string) Option {
	return func(o *Options) { o.IgnoreMetadataColumns = append([]string{}, names...) }
}

// WithMetadataJSONColumn names the JSON metadata column. A column named this
// way must exist; pass "" to store no JSON metadata at all.
func WithMetadataJSONColumn(name string) Option {
	return func(o *Options) {
		o.MetadataJSONColumn = name
		o.jsonColumnExplicit = name != ""
	}
}

// WithDistanceStrategy selects the operator used to rank search results.
func WithDistanceStrategy(d DistanceStrategy) Option {
	return func(o *Options) { o.DistanceStrategy = d }
}

// WithK sets the number of results a search returns when the call passes
// k <= 0.
func WithK(k int) Option {
	return func(o *Options) { o.K = k }
}

// WithFetchK sets how many candidates MMR search fetches before re-ranking.
func WithFetchK(fetchK int) Option {
	return func(o *Options) { o.FetchK = fetchK }
}

// WithLambdaMult sets the default MMR trade-off between relevance (1) and
// diversity (0).
func WithLambdaMult(lambda float64) Option {
	return func(o *Options) { o.LambdaMult = lambda }
}

// WithEmbedding tunes how AddTexts calls the embedder.
func WithEmbedding(batchSize, concurrency int) Option {
	return func(o *Options) {
		o.EmbedBatchSize = batchSize
		o.EmbedConcurrency = concurrency
	}
}

// WithLogger sets the logger. Without it the store logs nothing.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithObserver reports every store operation to obs.
func WithObserver(obs observability.Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// WithTracer records a span per store operation. *tracer.Tracer satisfies
// Tracer.
func WithTracer(t Tracer) Option {
	return func(o *Options) { o.Tracer = t }
}

// check validates the options that do not need the catalog.
func (o Options) check() error {
	if o.MetadataColumns != nil && o.IgnoreMetadataColumns != nil {
		return configErr("", "metadata columns and ignored metadata columns are mutually exclusive")
	}
	for name, value := range map[string]string{
		"id":        o.IDColumn,
		"content":   o.ContentColumn,
		"embedding": o.EmbeddingColumn,
	} {
		if value == "" {
			return configErr("", name+" column name must not be empty")
		}
	}
	if _, err := o.DistanceStrategy.Operator(); err != nil {
		return err
	}
	if o.K < 0 || o.FetchK < 0 {
		return configErr("", "k and fetch_k must not be negative")
	}
	if o.LambdaMult < 0 || o.LambdaMult > 1 {
		return configErr("", "lambda_mult must be between 0 and 1")
	}
	if o.EmbedBatchSize <= 0 || o.EmbedConcurrency <= 0 {
		return configErr("", "embedding batch size and concurrency must be positive")
	}
	return nil
}
