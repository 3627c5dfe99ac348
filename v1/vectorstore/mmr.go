package vectorstore

import (
	"context"
	"fmt"
	"math"

	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
)

// MaxMarginalRelevanceSearch fetches the FetchK nearest documents to query
// and greedily picks K of them, trading relevance to the query against
// similarity to documents already picked. LambdaMult 1 ranks by relevance
// only, 0 by diversity only.
func (s *Store) MaxMarginalRelevanceSearch(ctx context.Context, query string, req vectordb.MMRRequest) ([]vectordb.Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embed query: %w", err)
	}
	return s.MaxMarginalRelevanceSearchByVector(ctx, embedding, req)
}

// MaxMarginalRelevanceSearchByVector is MaxMarginalRelevanceSearch for a
// precomputed query embedding.
func (s *Store) MaxMarginalRelevanceSearchByVector(ctx context.Context, embedding []float32, req vectordb.MMRRequest) ([]vectordb.Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	k := s.limit(req.K, s.opts.K)
	fetchK := s.limit(req.FetchK, s.opts.FetchK)
	lambda := req.LambdaMult
	if lambda == 0 {
		lambda = s.opts.LambdaMult
	}
	if lambda < 0 || lambda > 1 {
		return nil, configErr("", "lambda_mult must be between 0 and 1")
	}

	var out []vectordb.Document
	err := s.instrument(ctx, "mmr_search", func(ctx context.Context) (int64, error) {
		candidates, err := s.nearest(ctx, embedding, max(fetchK, k), req.Filters)
		if err != nil {
			return 0, err
		}

		embeddings := make([][]float32, len(candidates))
		for i, c := range candidates {
			embeddings[i] = c.embedding
		}

		picked := maximalMarginalRelevance(embedding, embeddings, lambda, k)
		out = make([]vectordb.Document, len(picked))
		for i, idx := range picked {
			out[i] = candidates[idx].doc
		}
		return int64(len(out)), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// maximalMarginalRelevance returns the indexes of up to k embeddings, in
// pick order. The first pick is the one most similar to query.
func maximalMarginalRelevance(query []float32, embeddings [][]float32, lambda float64, k int) []int {
	k = min(k, len(embeddings))
	if k <= 0 {
		return []int{}
	}

	toQuery := make([]float64, len(embeddings))
	best := 0
	for i, e := range embeddings {
		toQuery[i] = cosineSimilarity(query, e)
		if toQuery[i] > toQuery[best] {
			best = i
		}
	}

	picked := []int{best}
	chosen := map[int]bool{best: true}
	// redundancy[i] is the highest similarity of i to any picked embedding
	redundancy := make([]float64, len(embeddings))
	for i := range redundancy {
		redundancy[i] = math.Inf(-1)
	}

	for len(picked) < k {
		last := embeddings[picked[len(picked)-1]]
		next, nextScore := -1, math.Inf(-1)
		for i, e := range embeddings {
			if chosen[i] {
				continue
			}
			redundancy[i] = math.Max(redundancy[i], cosineSimilarity(e, last))
			score := lambda*toQuery[i] - (1-lambda)*redundancy[i]
			if score > nextScore {
				next, nextScore = i, score
			}
		}
		picked = append(picked, next)
		chosen[next] = true
	}
	return picked
}

// cosineSimilarity is 0 when either vector has zero length or the sizes
// differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
