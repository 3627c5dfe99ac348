// Package embedding turns text into vectors for the vector store.
//
// Two implementations of the Embedder contract used by vectorstore live here:
//
//   - Client talks to any OpenAI-compatible POST /embeddings endpoint.
//   - DeterministicFake derives a stable pseudo-random vector from each text.
//
// Configuration comes from the environment:
//
//	EMBEDDING_ENDPOINT              API root, e.g. https://inference.example.com/v1
//	EMBEDDING_SERVICE_TOKEN         bearer token
//	EMBEDDING_MODEL                 model name sent with every request
//	EMBEDDING_HTTP_TIMEOUT_SECONDS  default 30
//	EMBEDDING_BATCH_SIZE            texts per request, default 64
//
// Usage:
//
//	cfg, err := embedding.NewConfig()
//	if err != nil {
//	    return err
//	}
//	client, err := embedding.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	vectors, err := client.EmbedDocuments(ctx, []string{"foo", "bar"})
package embedding
