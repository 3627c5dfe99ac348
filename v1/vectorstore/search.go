package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

const distanceAlias = "_yb_distance"

// candidate is one search hit with the embedding needed for re-ranking.
type candidate struct {
	doc       vectordb.Document
	embedding []float32
	distance  float64
}

// SimilaritySearch returns the k documents closest to query. k <= 0 uses the
// configured default.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int, filters *vectordb.FilterSet) ([]vectordb.Document, error) {
	scored, err := s.SimilaritySearchWithScore(ctx, query, k, filters)
	if err != nil {
		return nil, err
	}
	return documents(scored), nil
}

// SimilaritySearchWithScore is SimilaritySearch with the distance of every
// hit. Ranking is done by the database's distance operator.
func (s *Store) SimilaritySearchWithScore(ctx context.Context, query string, k int, filters *vectordb.FilterSet) ([]vectordb.ScoredDocument, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embed query: %w", err)
	}
	return s.SimilaritySearchByVectorWithScore(ctx, embedding, k, filters)
}

// SimilaritySearchByVector returns the k documents closest to embedding.
func (s *Store) SimilaritySearchByVector(ctx context.Context, embedding []float32, k int, filters *vectordb.FilterSet) ([]vectordb.Document, error) {
	scored, err := s.SimilaritySearchByVectorWithScore(ctx, embedding, k, filters)
	if err != nil {
		return nil, err
	}
	return documents(scored), nil
}

// SimilaritySearchByVectorWithScore returns the k documents closest to
// embedding together with their distances.
func (s *Store) SimilaritySearchByVectorWithScore(ctx context.Context, embedding []float32, k int, filters *vectordb.FilterSet) ([]vectordb.ScoredDocument, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var out []vectordb.ScoredDocument
	err := s.instrument(ctx, "similarity_search", func(ctx context.Context) (int64, error) {
		candidates, err := s.nearest(ctx, embedding, s.limit(k, s.opts.K), filters)
		if err != nil {
			return 0, err
		}
		out = make([]vectordb.ScoredDocument, len(candidates))
		for i, c := range candidates {
			out[i] = vectordb.ScoredDocument{Document: c.doc, Score: c.distance}
		}
		return int64(len(out)), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// nearest runs the ranked query. It needs a PostgreSQL-family database with
// the vector extension.
func (s *Store) nearest(ctx context.Context, embedding []float32, k int, filters *vectordb.FilterSet) ([]candidate, error) {
	if s.engine.Dialect() != "postgres" {
		return nil, fmt.Errorf("%w: similarity search on %s", ErrUnsupportedDialect, s.engine.Dialect())
	}
	if s.schema.Dimension > 0 && len(embedding) != s.schema.Dimension {
		return nil, &ConfigurationError{
			Column:   s.schema.EmbeddingColumn.Name,
			Actual:   fmt.Sprintf("%d dimensions", len(embedding)),
			Expected: fmt.Sprintf("%d dimensions", s.schema.Dimension),
			Reason:   "query embedding has the wrong length",
		}
	}

	where, whereArgs, err := whereClause(s.schema, filters)
	if err != nil {
		return nil, err
	}

	query, args := s.searchQuery(pgvector.NewVector(embedding), k, where, whereArgs)

	var out []candidate
	err = s.engine.Connect(ctx, func(conn *ybengine.Conn) error {
		rows, err := conn.Query(query, args...)
		if err != nil {
			return err
		}
		out = make([]candidate, 0, len(rows))
		for _, row := range rows {
			doc, emb, err := decodeRow(s.schema, row)
			if err != nil {
				return err
			}
			distance, err := floatValue(row[distanceAlias])
			if err != nil {
				return fmt.Errorf("vectorstore: decode distance of %q: %w", doc.ID, err)
			}
			out = append(out, candidate{doc: doc, embedding: emb, distance: distance})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// searchQuery renders the ranked SELECT. The embedding is bound once for the
// distance expression; ORDER BY refers to the alias.
func (s *Store) searchQuery(embedding pgvector.Vector, k int, where string, whereArgs []any) (string, []any) {
	query := fmt.Sprintf("SELECT %s, %s %s ?::vector AS %s FROM %s",
		s.selectList(),
		pq.QuoteIdentifier(s.schema.EmbeddingColumn.Name),
		s.operator,
		distanceAlias,
		s.schema.QualifiedTable(),
	)
	args := []any{embedding}
	if where != "" {
		query += " WHERE " + where
		args = append(args, whereArgs...)
	}
	query += " ORDER BY " + distanceAlias + " LIMIT ?"
	args = append(args, k)
	return query, args
}

func (s *Store) limit(requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultK
}

func documents(scored []vectordb.ScoredDocument) []vectordb.Document {
	docs := make([]vectordb.Document, len(scored))
	for i, sd := range scored {
		docs[i] = sd.Document
	}
	return docs
}

func floatValue(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(val, 64)
	case []byte:
		return strconv.ParseFloat(string(val), 64)
	default:
		return 0, fmt.Errorf("unexpected distance value %T", v)
	}
}
