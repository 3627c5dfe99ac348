// Package vectordb defines the vector store contract and the filter language
// shared by store implementations.
//
// # Overview
//
// Application code depends on [Service] and the types in this package only.
// The vectorstore package implements Service on top of a YugabyteDB (or any
// PostgreSQL-compatible) table; tests can substitute their own double.
//
// # Documents
//
// A [Document] is text plus metadata. Metadata merges two sources: declared
// metadata columns of the table and the keys of an optional JSON metadata
// column. Searches return Documents, or [ScoredDocument] values when the
// caller asks for distances.
//
// # Filters
//
// Filters are built from Must (AND), Should (OR) and MustNot (NOT) clauses.
// Each condition names a field and whether that field is a table column
// ([ColumnField]) or a key of the JSON metadata column ([MetadataField]):
//
//	filters := vectordb.NewFilterSet(
//	    vectordb.Must(
//	        vectordb.NewMatch("source", "yugabytedb"),
//	        vectordb.NewMetadataNumericRange("year", vectordb.NumericRange{Gte: &from}),
//	    ),
//	    vectordb.MustNot(vectordb.NewMetadataIsNull("author")),
//	)
//
//	docs, err := store.SimilaritySearch(ctx, "distributed sql", 4, filters)
//
// Supported conditions:
//
//   - [MatchCondition]: field = value
//   - [MatchAnyCondition]: field IN (values)
//   - [MatchExceptCondition]: field NOT IN (values)
//   - [NumericRangeCondition]: bounded numeric range
//   - [IsNullCondition]: field IS NULL, or metadata key absent
//
// [FilterSet.Validate] rejects conditions without a field, empty value lists
// and lists that mix strings, numbers and booleans. Stores call it before
// translating a filter.
//
// # JSON
//
// FilterSet round-trips through encoding/json, so filters can be accepted
// from request bodies. The condition type is inferred from its keys
// ("equalTo", "anyOf", "noneOf", range bounds, "isNull").
package vectordb
