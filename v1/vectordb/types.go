package vectordb

// Document is a piece of text and its metadata as stored in, and returned
// from, a vector store.
type Document struct {
	// ID is the row identifier. Empty on input means "let the store pick one".
	ID string `json:"id,omitempty"`

	// Content is the text that was embedded.
	Content string `json:"content"`

	// Metadata holds declared metadata columns and the keys of the JSON
	// metadata column, merged into one map.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScoredDocument is a search hit together with the distance reported by the
// database operator.
type ScoredDocument struct {
	Document

	// Score is the raw distance: lower is closer for cosine and euclidean
	// distance, and for inner product it is the negated inner product.
	Score float64 `json:"score"`
}

// MMRRequest tunes a maximal marginal relevance search. Zero fields fall
// back to the store's configured defaults.
type MMRRequest struct {
	// K is the number of documents to return.
	K int `json:"k,omitempty"`

	// FetchK is the number of nearest candidates fetched before re-ranking.
	FetchK int `json:"fetchK,omitempty"`

	// LambdaMult trades relevance (1) against diversity (0).
	LambdaMult float64 `json:"lambdaMult,omitempty"`

	Filters *FilterSet `json:"filters,omitempty"`
}
