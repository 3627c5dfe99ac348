package vectorstore

import "context"

// Embedder turns text into embeddings. *embedding.Client and
// *embedding.DeterministicFake both satisfy it.
//
//go:generate mockgen -source=embedder.go -destination=mock_embedder_test.go -package=vectorstore
type Embedder interface {
	// EmbedDocuments returns one embedding per text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
