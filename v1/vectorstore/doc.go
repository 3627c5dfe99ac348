// Package vectorstore stores text, embeddings and metadata in a YugabyteDB
// (or any PostgreSQL-compatible) table with a caller-defined layout, and
// implements vectordb.Service on top of it.
//
// # Table layout
//
// A store table has an id column, a text content column, a vector embedding
// column, any number of metadata columns and an optional JSON column for
// metadata keys without a column of their own. Column names are configurable;
// the defaults are langchain_id, content, embedding and langchain_metadata.
// ybengine.Engine.InitVectorstoreTable creates such a table.
//
// # Creating a store
//
// Create is the only way to obtain a usable Store. It reads the live catalog
// and checks the requested layout against it:
//
//   - id, content and embedding columns must exist
//   - content must be a text type, embedding a vector type
//   - an explicitly named JSON column must exist and be json or jsonb; the
//     default JSON column is simply not used when the table lacks it
//   - metadata columns come either from an allow-list (WithMetadataColumns,
//     every entry must exist) or a deny-list (WithIgnoreMetadataColumns,
//     unknown entries are ignored), never both
//
// Any violation is a *ConfigurationError, returned before a row is touched.
// A Store built any other way rejects every call with ErrConstructionMisuse.
//
//	store, err := vectorstore.Create(ctx, engine, embedder, "documents",
//	    vectorstore.WithIDColumn("myid"),
//	    vectorstore.WithMetadataColumns("page", "source"),
//	    vectorstore.WithMetadataJSONColumn("mymeta"),
//	)
//
// # Writing
//
// AddTexts and AddDocuments embed their input with the store's Embedder, in
// concurrent batches, and hand the result to the same path as AddEmbeddings.
// Each call writes all of its rows in one batched statement, so it either
// stores everything or nothing. Metadata keys matching a declared column go
// to that column; the rest are JSON-encoded into the JSON column, or dropped
// when there is none. Delete with no ids is a no-op that returns false.
//
// # Searching
//
// SimilaritySearch and its variants rank rows with the pgvector distance
// operator of the configured DistanceStrategy (<=>, <-> or <#>) and accept a
// vectordb.FilterSet, translated to a parameterized WHERE clause.
// MaxMarginalRelevanceSearch re-ranks the nearest FetchK rows for diversity.
// Searching needs a PostgreSQL-family database; on other dialects it returns
// ErrUnsupportedDialect.
//
// # Concurrency
//
// A Store is safe for concurrent use. Each operation runs on the engine's
// worker, checks one connection out of the shared pool for its duration and
// returns it on every exit path. Operations are not ordered against each
// other; callers that need a delete to precede an add must wait for it.
//
// # Observability
//
// WithLogger, WithObserver and WithTracer attach a logger, an
// observability.Observer (see the metrics package) and a span tracer (see
// the tracer package). Every operation reports one observation and one span.
package vectorstore
