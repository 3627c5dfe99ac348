package vectordb

import "context"

// Service is the vector store contract. Application code depends on it
// rather than on a concrete store, so a SQL-backed store and a test double
// are interchangeable.
//
// Example usage:
//
//	func NewSearchService(store vectordb.Service) *SearchService {
//	    return &SearchService{store: store}
//	}
type Service interface {
	// AddTexts embeds texts and stores them with their metadata. ids may be
	// nil, in which case fresh ids are generated. Returns the ids written,
	// in input order.
	AddTexts(ctx context.Context, texts []string, metadatas []map[string]any, ids []string) ([]string, error)

	// AddEmbeddings stores texts with precomputed embeddings.
	AddEmbeddings(ctx context.Context, texts []string, embeddings [][]float32, metadatas []map[string]any, ids []string) ([]string, error)

	// AddDocuments embeds and stores documents. When ids is nil the document
	// ID is used if set.
	AddDocuments(ctx context.Context, docs []Document, ids []string) ([]string, error)

	// Delete removes the rows with the given ids and reports whether any row
	// was removed. An empty ids slice is a no-op that returns false.
	Delete(ctx context.Context, ids []string) (bool, error)

	// GetByIDs returns the stored documents for ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]Document, error)

	// SimilaritySearch returns the k documents closest to query.
	SimilaritySearch(ctx context.Context, query string, k int, filters *FilterSet) ([]Document, error)

	// SimilaritySearchByVector returns the k documents closest to embedding.
	SimilaritySearchByVector(ctx context.Context, embedding []float32, k int, filters *FilterSet) ([]Document, error)

	// SimilaritySearchWithScore is SimilaritySearch with distances.
	SimilaritySearchWithScore(ctx context.Context, query string, k int, filters *FilterSet) ([]ScoredDocument, error)

	// MaxMarginalRelevanceSearch returns documents that are close to query
	// but diverse among themselves.
	MaxMarginalRelevanceSearch(ctx context.Context, query string, req MMRRequest) ([]Document, error)
}
