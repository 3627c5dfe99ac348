package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

// AddEmbeddings stores texts with precomputed embeddings. embeddings[i]
// belongs to texts[i]; metadatas and ids are optional and, when given, must
// line up with texts. Missing or empty ids are replaced with random UUIDs.
//
// All rows go out in one batched statement (several inside one transaction
// when the bind-parameter limit requires it), so the call is all-or-nothing.
// Returns the ids in input order.
func (s *Store) AddEmbeddings(ctx context.Context, texts []string, embeddings [][]float32, metadatas []map[string]any, ids []string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, countErr("embeddings", len(embeddings), len(texts))
	}
	if err := s.checkInputs(len(texts), metadatas, ids); err != nil {
		return nil, err
	}

	var out []string
	err := s.instrument(ctx, "add_embeddings", func(ctx context.Context) (int64, error) {
		var err error
		out, err = s.insert(ctx, texts, embeddings, metadatas, ids)
		return int64(len(out)), err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddTexts embeds texts with the store's Embedder and stores them. Texts are
// embedded in batches, several batches at a time.
func (s *Store) AddTexts(ctx context.Context, texts []string, metadatas []map[string]any, ids []string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := s.checkInputs(len(texts), metadatas, ids); err != nil {
		return nil, err
	}

	var out []string
	err := s.instrument(ctx, "add_texts", func(ctx context.Context) (int64, error) {
		embeddings, err := s.embedTexts(ctx, texts)
		if err != nil {
			return 0, err
		}
		out, err = s.insert(ctx, texts, embeddings, metadatas, ids)
		return int64(len(out)), err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddDocuments embeds and stores documents. When ids is nil each document's
// own ID is used, falling back to a random UUID.
func (s *Store) AddDocuments(ctx context.Context, docs []vectordb.Document, ids []string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	texts := make([]string, len(docs))
	metadatas := make([]map[string]any, len(docs))
	docIDs := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
		metadatas[i] = d.Metadata
		docIDs[i] = d.ID
	}
	if ids == nil {
		ids = docIDs
	}
	return s.AddTexts(ctx, texts, metadatas, ids)
}

// Delete removes the rows whose id is in ids and reports whether any row was
// removed. An empty ids slice deletes nothing and returns false.
func (s *Store) Delete(ctx context.Context, ids []string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	var deleted int64
	err := s.instrument(ctx, "delete", func(ctx context.Context) (int64, error) {
		err := s.engine.Connect(ctx, func(conn *ybengine.Conn) error {
			var err error
			deleted, err = conn.DeleteIn(s.schema.QualifiedTable(), s.schema.IDColumn.Name, values)
			return err
		})
		return deleted, err
	})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// GetByIDs returns the stored documents for ids, in the order requested.
// Ids with no row are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]vectordb.Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []vectordb.Document{}, nil
	}

	byID := make(map[string]vectordb.Document, len(ids))
	err := s.instrument(ctx, "get_by_ids", func(ctx context.Context) (int64, error) {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN ?",
			s.selectList(), s.schema.QualifiedTable(), pq.QuoteIdentifier(s.schema.IDColumn.Name))

		err := s.engine.Connect(ctx, func(conn *ybengine.Conn) error {
			for lo := 0; lo < len(ids); lo += ybengine.MaxBindParameters {
				hi := min(lo+ybengine.MaxBindParameters, len(ids))
				values := make([]any, 0, hi-lo)
				for _, id := range ids[lo:hi] {
					values = append(values, id)
				}

				rows, err := conn.Query(query, values)
				if err != nil {
					return err
				}
				for _, row := range rows {
					doc, _, err := decodeRow(s.schema, row)
					if err != nil {
						return err
					}
					byID[idKey(doc.ID)] = doc
				}
			}
			return nil
		})
		return int64(len(byID)), err
	})
	if err != nil {
		return nil, err
	}

	docs := make([]vectordb.Document, 0, len(byID))
	for _, id := range ids {
		key := idKey(id)
		if doc, ok := byID[key]; ok {
			docs = append(docs, doc)
			delete(byID, key)
		}
	}
	return docs, nil
}

// idKey folds the spellings a uuid column treats as equal (case, braces,
// urn prefix) into one canonical form. Other ids are used verbatim.
func idKey(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// insert encodes every row before touching the database, then writes them
// in one Insert call.
func (s *Store) insert(ctx context.Context, texts []string, embeddings [][]float32, metadatas []map[string]any, ids []string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	out := make([]string, len(texts))
	rows := make([]map[string]any, len(texts))
	for i, text := range texts {
		if s.schema.Dimension > 0 && len(embeddings[i]) != s.schema.Dimension {
			return nil, &ConfigurationError{
				Column:   s.schema.EmbeddingColumn.Name,
				Actual:   fmt.Sprintf("%d dimensions", len(embeddings[i])),
				Expected: fmt.Sprintf("%d dimensions", s.schema.Dimension),
				Reason:   fmt.Sprintf("embedding %d has the wrong length", i),
			}
		}

		id := ""
		if ids != nil {
			id = ids[i]
		}
		if id == "" {
			id = uuid.NewString()
		}
		out[i] = id

		var metadata map[string]any
		if metadatas != nil {
			metadata = metadatas[i]
		}

		row, err := encodeRow(s.schema, id, text, embeddings[i], metadata)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	err := s.engine.Connect(ctx, func(conn *ybengine.Conn) error {
		_, err := conn.Insert(s.schema.QualifiedTable(), rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// embedTexts calls the embedder in batches of EmbedBatchSize, at most
// EmbedConcurrency at a time, keeping input order.
func (s *Store) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	batch := s.opts.EmbedBatchSize

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.EmbedConcurrency)
	for lo := 0; lo < len(texts); lo += batch {
		hi := min(lo+batch, len(texts))
		g.Go(func() error {
			vectors, err := s.embedder.EmbedDocuments(gctx, texts[lo:hi])
			if err != nil {
				return fmt.Errorf("vectorstore: embed texts %d-%d: %w", lo, hi-1, err)
			}
			if len(vectors) != hi-lo {
				return fmt.Errorf("vectorstore: embedder returned %d embeddings for %d texts", len(vectors), hi-lo)
			}
			copy(out[lo:hi], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) checkInputs(n int, metadatas []map[string]any, ids []string) error {
	if metadatas != nil && len(metadatas) != n {
		return countErr("metadatas", len(metadatas), n)
	}
	if ids != nil && len(ids) != n {
		return countErr("ids", len(ids), n)
	}
	return nil
}

// selectList renders the quoted column list used by every read.
func (s *Store) selectList() string {
	names := s.schema.ColumnNames()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = pq.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

func countErr(argument string, got, want int) *ConfigurationError {
	return &ConfigurationError{
		Column:   argument,
		Actual:   fmt.Sprintf("%d", got),
		Expected: fmt.Sprintf("%d", want),
		Reason:   "count does not match the number of texts",
	}
}
