package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/yugabyte/yb-vectorstore/internal/testdb"
	"github.com/yugabyte/yb-vectorstore/v1/embedding"
	"github.com/yugabyte/yb-vectorstore/v1/logger"
	"github.com/yugabyte/yb-vectorstore/v1/observability"
	"github.com/yugabyte/yb-vectorstore/v1/tracer"
	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

const (
	defaultTable   = "default"
	customTable    = "custom"
	testVectorSize = 3
)

var (
	texts     = []string{"foo", "bar", "baz"}
	metadatas = []map[string]any{
		{"page": "0", "source": "yugabytedb"},
		{"page": "1", "source": "yugabytedb"},
		{"page": "2", "source": "yugabytedb"},
	}
	fakeEmbedder = embedding.NewDeterministicFake(testVectorSize)
)

func customTableOptions() ybengine.TableOptions {
	return ybengine.TableOptions{
		TableName:       customTable,
		VectorSize:      testVectorSize,
		IDColumn:        ybengine.Column{Name: "myid", DataType: "TEXT"},
		ContentColumn:   "mycontent",
		EmbeddingColumn: "myembedding",
		MetadataColumns: []ybengine.Column{
			{Name: "page", DataType: "TEXT"},
			{Name: "source", DataType: "TEXT"},
		},
		MetadataJSONColumn: "mymeta",
		StoreMetadata:      true,
	}
}

// newTestEngine returns a SQLite engine holding an empty default table and
// an empty custom table.
func newTestEngine(t *testing.T) *ybengine.Engine {
	t.Helper()
	ctx := context.Background()

	engine := testdb.NewSQLiteEngine(t)
	require.NoError(t, engine.InitVectorstoreTable(ctx, ybengine.DefaultTableOptions(defaultTable, testVectorSize)))
	require.NoError(t, engine.InitVectorstoreTable(ctx, customTableOptions()))
	return engine
}

func newDefaultStore(t *testing.T, engine *ybengine.Engine, opts ...Option) *Store {
	t.Helper()
	store, err := Create(context.Background(), engine, fakeEmbedder, defaultTable, opts...)
	require.NoError(t, err)
	return store
}

func newCustomStore(t *testing.T, engine *ybengine.Engine, opts ...Option) *Store {
	t.Helper()
	store, err := Create(context.Background(), engine, fakeEmbedder, customTable, append([]Option{
		WithIDColumn("myid"),
		WithContentColumn("mycontent"),
		WithEmbeddingColumn("myembedding"),
		WithMetadataColumns("page", "source"),
		WithMetadataJSONColumn("mymeta"),
	}, opts...)...)
	require.NoError(t, err)
	return store
}

func fetchAll(t *testing.T, engine *ybengine.Engine, table string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	err := engine.Connect(context.Background(), func(conn *ybengine.Conn) error {
		var err error
		rows, err = conn.Query(fmt.Sprintf("SELECT * FROM %s", ybengine.QualifiedName("", table)))
		return err
	})
	require.NoError(t, err)
	return rows
}

func newIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}

func TestAddTexts(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	ids := newIDs(len(texts))
	got, err := store.AddTexts(ctx, texts, nil, ids)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
	assert.Len(t, fetchAll(t, engine, defaultTable), 3)

	_, err = store.AddTexts(ctx, texts, metadatas, newIDs(len(texts)))
	require.NoError(t, err)
	assert.Len(t, fetchAll(t, engine, defaultTable), 6)
}

func TestAddTextsEdgeCases(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	edgy := []string{"Taylor's", `"Swift"`, "best-friend", "'; DROP TABLE \"default\"; --"}
	ids, err := store.AddTexts(ctx, edgy, nil, nil)
	require.NoError(t, err)
	assert.Len(t, fetchAll(t, engine, defaultTable), 4)

	docs, err := store.GetByIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	for i, doc := range docs {
		assert.Equal(t, edgy[i], doc.Content)
	}
}

func TestAddTextsEmpty(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)

	ids, err := store.AddTexts(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, fetchAll(t, engine, defaultTable))
}

func TestAddDocuments(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	docs := make([]vectordb.Document, len(texts))
	for i := range texts {
		docs[i] = vectordb.Document{Content: texts[i], Metadata: metadatas[i]}
	}

	ids := newIDs(len(texts))
	got, err := store.AddDocuments(ctx, docs, ids)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
	assert.Len(t, fetchAll(t, engine, defaultTable), 3)
}

func TestAddDocumentsWithoutIDs(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	ownID := uuid.NewString()
	docs := []vectordb.Document{
		{Content: "foo", Metadata: metadatas[0]},
		{ID: ownID, Content: "bar"},
		{Content: "baz"},
	}

	ids, err := store.AddDocuments(ctx, docs, nil)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, ownID, ids[1])
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
	assert.Len(t, fetchAll(t, engine, defaultTable), 3)
}

func TestDelete(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	ids := newIDs(len(texts))
	_, err := store.AddTexts(ctx, texts, nil, ids)
	require.NoError(t, err)
	require.Len(t, fetchAll(t, engine, defaultTable), 3)

	deleted, err := store.Delete(ctx, []string{ids[0]})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, fetchAll(t, engine, defaultTable), 2)

	docs, err := store.GetByIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.NotEqual(t, ids[0], docs[0].ID)

	deleted, err = store.Delete(ctx, nil)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.Delete(ctx, []string{uuid.NewString()})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, fetchAll(t, engine, defaultTable), 2)
}

func TestAddEmbeddingsCustom(t *testing.T) {
	engine := newTestEngine(t)
	store := newCustomStore(t, engine)
	ctx := context.Background()

	embeddings, err := fakeEmbedder.EmbedDocuments(ctx, texts)
	require.NoError(t, err)

	_, err = store.AddEmbeddings(ctx, texts, embeddings, metadatas, nil)
	require.NoError(t, err)

	rows := fetchAll(t, engine, customTable)
	require.Len(t, rows, 3)
	assert.Contains(t, texts, rows[0]["mycontent"])
	assert.NotEmpty(t, rows[0]["myembedding"])
	assert.Equal(t, "yugabytedb", rows[0]["source"])
	assert.JSONEq(t, `{}`, textValue(rows[0]["mymeta"]))
}

func TestAddTextsCustom(t *testing.T) {
	engine := newTestEngine(t)
	store := newCustomStore(t, engine)
	ctx := context.Background()

	_, err := store.AddTexts(ctx, texts, nil, newIDs(len(texts)))
	require.NoError(t, err)

	rows := fetchAll(t, engine, customTable)
	require.Len(t, rows, 3)
	assert.Contains(t, texts, rows[0]["mycontent"])
	assert.NotEmpty(t, rows[0]["myembedding"])
	assert.Nil(t, rows[0]["page"])
	assert.Nil(t, rows[0]["source"])

	_, err = store.AddTexts(ctx, texts, metadatas, newIDs(len(texts)))
	require.NoError(t, err)
	assert.Len(t, fetchAll(t, engine, customTable), 6)
}

func TestAddDocumentsCustom(t *testing.T) {
	engine := newTestEngine(t)
	store := newCustomStore(t, engine)
	ctx := context.Background()

	docs := make([]vectordb.Document, len(texts))
	for i := range texts {
		docs[i] = vectordb.Document{
			Content:  texts[i],
			Metadata: map[string]any{"page": fmt.Sprint(i), "source": "yugabytedb"},
		}
	}

	_, err := store.AddDocuments(ctx, docs, newIDs(len(texts)))
	require.NoError(t, err)

	rows := fetchAll(t, engine, customTable)
	require.Len(t, rows, 3)
	assert.Contains(t, texts, rows[0]["mycontent"])
	assert.NotEmpty(t, rows[0]["myembedding"])
	assert.Equal(t, "yugabytedb", rows[0]["source"])
}

func TestDeleteCustom(t *testing.T) {
	engine := newTestEngine(t)
	store := newCustomStore(t, engine)
	ctx := context.Background()

	ids := newIDs(len(texts))
	_, err := store.AddTexts(ctx, texts, nil, ids)
	require.NoError(t, err)

	contents := func() []any {
		var out []any
		for _, row := range fetchAll(t, engine, customTable) {
			out = append(out, row["mycontent"])
		}
		return out
	}
	require.Len(t, contents(), 3)
	assert.Contains(t, contents(), "foo")

	_, err = store.Delete(ctx, []string{ids[0]})
	require.NoError(t, err)
	assert.Len(t, contents(), 2)
	assert.NotContains(t, contents(), "foo")
}

func TestGetByIDsMergesMetadata(t *testing.T) {
	engine := newTestEngine(t)
	store := newCustomStore(t, engine)
	ctx := context.Background()

	ids, err := store.AddTexts(ctx, []string{"foo", "bar"}, []map[string]any{
		{"page": "0", "source": "yugabytedb", "author": "taylor", "year": 2024},
		nil,
	}, nil)
	require.NoError(t, err)

	docs, err := store.GetByIDs(ctx, []string{ids[1], "missing", ids[0]})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, ids[1], docs[0].ID)
	assert.Equal(t, "bar", docs[0].Content)
	assert.Equal(t, map[string]any{"page": nil, "source": nil}, docs[0].Metadata)

	assert.Equal(t, ids[0], docs[1].ID)
	assert.Equal(t, map[string]any{
		"page":   "0",
		"source": "yugabytedb",
		"author": "taylor",
		"year":   float64(2024),
	}, docs[1].Metadata)

	empty, err := store.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetByIDsMatchesUUIDSpellings(t *testing.T) {
	ctx := context.Background()
	engine := testdb.NewSQLiteEngine(t,
		`CREATE TABLE "nocase" (
  "langchain_id" TEXT COLLATE NOCASE PRIMARY KEY,
  "content" TEXT NOT NULL,
  "embedding" vector(3) NOT NULL
)`)
	store, err := Create(ctx, engine, fakeEmbedder, "nocase")
	require.NoError(t, err)

	ids, err := store.AddTexts(ctx, []string{"foo", "bar"}, nil, nil)
	require.NoError(t, err)

	upper := strings.ToUpper(ids[1])
	docs, err := store.GetByIDs(ctx, []string{upper, ids[0], "not-a-uuid"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "bar", docs[0].Content)
	assert.Equal(t, ids[1], docs[0].ID)
	assert.Equal(t, "foo", docs[1].Content)
}

func TestIDKey(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String(), idKey(strings.ToUpper(id.String())))
	assert.Equal(t, id.String(), idKey("{"+id.String()+"}"))
	assert.Equal(t, id.String(), idKey("urn:uuid:"+id.String()))
	assert.Equal(t, "Doc-1", idKey("Doc-1"))
}

func TestIgnoreMetadataColumns(t *testing.T) {
	engine := newTestEngine(t)

	store, err := Create(context.Background(), engine, fakeEmbedder, customTable,
		WithIgnoreMetadataColumns("source"),
		WithIDColumn("myid"),
		WithContentColumn("mycontent"),
		WithEmbeddingColumn("myembedding"),
		WithMetadataJSONColumn("mymeta"),
	)
	require.NoError(t, err)
	assert.NotContains(t, store.MetadataColumns(), "source")
	assert.Equal(t, []string{"page"}, store.MetadataColumns())
	assert.Equal(t, []string{"myid", "mycontent", "myembedding", "page", "mymeta"}, store.Columns())
}

func TestCreateWithInvalidParameters(t *testing.T) {
	engine := newTestEngine(t)
	custom := []Option{WithIDColumn("myid"), WithContentColumn("mycontent"), WithEmbeddingColumn("myembedding")}

	tests := []struct {
		name string
		opts []Option
	}{
		{"content column missing", []Option{WithContentColumn("noname"), WithMetadataColumns("page", "source"), WithMetadataJSONColumn("mymeta")}},
		{"invalid metadata column", []Option{WithMetadataColumns("random_column")}},
		{"invalid content column type", []Option{WithContentColumn("langchain_id"), WithMetadataColumns("random_column")}},
		{"invalid embedding column", []Option{WithEmbeddingColumn("random_column"), WithMetadataColumns("random_column")}},
		{"invalid embedding column type", []Option{WithEmbeddingColumn("myid"), WithMetadataColumns("random_column")}},
		{"metadata and ignored metadata", []Option{
			WithEmbeddingColumn("langchain_id"),
			WithMetadataColumns("random_column"),
			WithIgnoreMetadataColumns("one", "two"),
		}},
		{"missing explicit JSON column", []Option{WithMetadataJSONColumn("nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Create(context.Background(), engine, fakeEmbedder, customTable, append(custom, tt.opts...)...)
			assert.Nil(t, store)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}

	t.Run("missing table", func(t *testing.T) {
		_, err := Create(context.Background(), engine, fakeEmbedder, "nope")
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := Create(context.Background(), nil, fakeEmbedder, defaultTable)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = Create(context.Background(), engine, nil, defaultTable)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = Create(context.Background(), engine, fakeEmbedder, "")
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestConstructionOutsideFactory(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	_, err := newStore(nil, engine, fakeEmbedder, Schema{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrConstructionMisuse)

	_, err = newStore(&createKey{}, engine, fakeEmbedder, Schema{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrConstructionMisuse)

	forged := &Store{key: &createKey{}, engine: engine, embedder: fakeEmbedder}
	_, err = forged.AddTexts(ctx, texts, nil, nil)
	assert.ErrorIs(t, err, ErrConstructionMisuse)

	var store Store
	_, err = store.AddTexts(ctx, texts, nil, nil)
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	_, err = store.AddEmbeddings(ctx, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	_, err = store.AddDocuments(ctx, nil, nil)
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	_, err = store.Delete(ctx, []string{"x"})
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	_, err = store.GetByIDs(ctx, []string{"x"})
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	_, err = store.SimilaritySearch(ctx, "foo", 1, nil)
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	_, err = store.MaxMarginalRelevanceSearch(ctx, "foo", vectordb.MMRRequest{})
	assert.ErrorIs(t, err, ErrConstructionMisuse)
	assert.Nil(t, store.Columns())
	assert.Equal(t, "vectorstore(invalid)", store.String())
}

func TestAddRejectsMismatchedInputs(t *testing.T) {
	engine := newTestEngine(t)
	store := newCustomStore(t, engine)
	ctx := context.Background()

	embeddings, err := fakeEmbedder.EmbedDocuments(ctx, texts)
	require.NoError(t, err)

	_, err = store.AddEmbeddings(ctx, texts, embeddings[:2], nil, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = store.AddTexts(ctx, texts, metadatas[:1], nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = store.AddTexts(ctx, texts, nil, []string{"a"})
	assert.ErrorIs(t, err, ErrConfiguration)

	wrongSize := [][]float32{{1, 2, 3}, {1, 2}, {1, 2, 3}}
	_, err = store.AddEmbeddings(ctx, texts, wrongSize, nil, nil)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "myembedding", cfgErr.Column)

	assert.Empty(t, fetchAll(t, engine, customTable), "no row may be written when validation fails")
}

func TestAddIsAllOrNothing(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	dup := uuid.NewString()
	_, err := store.AddTexts(ctx, texts, nil, []string{uuid.NewString(), dup, dup})
	require.Error(t, err)
	assert.Empty(t, fetchAll(t, engine, defaultTable))

	ids, err := store.AddTexts(ctx, texts[:1], nil, nil)
	require.NoError(t, err)
	_, err = store.AddTexts(ctx, texts, nil, []string{uuid.NewString(), uuid.NewString(), ids[0]})
	require.Error(t, err)
	assert.Len(t, fetchAll(t, engine, defaultTable), 1)
}

func TestAddTextsEmbedsInBatches(t *testing.T) {
	engine := newTestEngine(t)
	ctrl := gomock.NewController(t)
	embedder := NewMockEmbedder(ctrl)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		batches [][]string
	)
	embedder.EXPECT().EmbedDocuments(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(ctx context.Context, in []string) ([][]float32, error) {
			mu.Lock()
			batches = append(batches, in)
			mu.Unlock()
			return fakeEmbedder.EmbedDocuments(ctx, in)
		})

	store, err := Create(ctx, engine, embedder, defaultTable, WithEmbedding(2, 2))
	require.NoError(t, err)

	input := []string{"a", "b", "c", "d", "e"}
	ids, err := store.AddTexts(ctx, input, nil, nil)
	require.NoError(t, err)
	require.Len(t, ids, 5)

	assert.ElementsMatch(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches)

	docs, err := store.GetByIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, docs, 5)
	for i, doc := range docs {
		assert.Equal(t, input[i], doc.Content)
	}
}

func TestAddTextsEmbedderFailure(t *testing.T) {
	engine := newTestEngine(t)
	ctrl := gomock.NewController(t)
	embedder := NewMockEmbedder(ctrl)
	ctx := context.Background()

	boom := errors.New("model unavailable")
	embedder.EXPECT().EmbedDocuments(gomock.Any(), []string{"foo", "bar", "baz"}).Return(nil, boom)
	embedder.EXPECT().EmbedDocuments(gomock.Any(), []string{"foo"}).Return([][]float32{}, nil)

	store, err := Create(ctx, engine, embedder, defaultTable)
	require.NoError(t, err)

	_, err = store.AddTexts(ctx, texts, nil, nil)
	assert.ErrorIs(t, err, boom)

	_, err = store.AddTexts(ctx, []string{"foo"}, nil, nil)
	assert.ErrorContains(t, err, "returned 0 embeddings for 1 texts")

	assert.Empty(t, fetchAll(t, engine, defaultTable))
}

func TestSimilaritySearchNeedsPostgres(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	_, err := store.SimilaritySearch(ctx, "foo", 2, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDialect)

	_, err = store.MaxMarginalRelevanceSearch(ctx, "foo", vectordb.MMRRequest{})
	assert.ErrorIs(t, err, ErrUnsupportedDialect)

	_, err = store.MaxMarginalRelevanceSearch(ctx, "foo", vectordb.MMRRequest{LambdaMult: 2})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestStoreAfterEngineClose(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	require.NoError(t, engine.Close())

	_, err := store.AddTexts(context.Background(), texts, nil, nil)
	assert.ErrorIs(t, err, ybengine.ErrEngineClosed)

	_, err = store.Delete(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ybengine.ErrEngineClosed)
}

func TestStoreCancelledContext(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Delete(ctx, []string{"x"})
	assert.Error(t, err)

	deleted, err := store.Delete(context.Background(), []string{"x"})
	require.NoError(t, err, "the connection must have been released")
	assert.False(t, deleted)
}

func TestConcurrentAdds(t *testing.T) {
	engine := newTestEngine(t)
	store := newDefaultStore(t, engine)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddTexts(ctx, texts, metadatas, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, fetchAll(t, engine, defaultTable), 8*len(texts))
}

func TestStoreReportsOperations(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	var (
		mu  sync.Mutex
		ops []observability.OperationContext
	)
	observer := observability.ObserverFunc(func(op observability.OperationContext) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, op)
	})

	recorder := tracetest.NewSpanRecorder()
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "test", AppEnv: "test"}, logger.NewNop(), sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	store := newDefaultStore(t, engine, WithObserver(observer), WithTracer(tr), WithLogger(logger.NewNop()))

	ids, err := store.AddTexts(ctx, texts, nil, nil)
	require.NoError(t, err)
	_, err = store.Delete(ctx, ids[:1])
	require.NoError(t, err)
	_, err = store.SimilaritySearch(ctx, "foo", 1, nil)
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ops, 3)
	assert.Equal(t, "add_texts", ops[0].Operation)
	assert.Equal(t, "vectorstore", ops[0].Component)
	assert.Equal(t, defaultTable, ops[0].Resource)
	assert.Equal(t, int64(3), ops[0].Size)
	assert.Equal(t, "delete", ops[1].Operation)
	assert.Equal(t, int64(1), ops[1].Size)
	assert.Equal(t, "similarity_search", ops[2].Operation)
	assert.ErrorIs(t, ops[2].Error, ErrUnsupportedDialect)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "vectorstore.add_texts", spans[0].Name())
	assert.Equal(t, "vectorstore.delete", spans[1].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}
