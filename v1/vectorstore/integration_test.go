package vectorstore_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/yugabyte/yb-vectorstore/internal/testdb"
	"github.com/yugabyte/yb-vectorstore/v1/embedding"
	"github.com/yugabyte/yb-vectorstore/v1/logger"
	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
	"github.com/yugabyte/yb-vectorstore/v1/vectorstore"
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

const vectorSize = 768

func floatPtr(v float64) *float64 { return &v }

func contents(docs []vectordb.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Content
	}
	return out
}

func TestVectorStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testdb.StartYugabyte(ctx)
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	embedder := embedding.NewDeterministicFake(vectorSize)

	var (
		engine *ybengine.Engine
		store  *vectorstore.Store
	)
	app := fxtest.New(t,
		fx.Provide(
			func() ybengine.Config { return container.Config },
			func() ybengine.Logger { return logger.NewNop() },
			func() vectorstore.Logger { return logger.NewNop() },
			func() vectorstore.Embedder { return embedder },
			func() vectorstore.Config {
				return vectorstore.Config{
					TableName:       "it_documents",
					MetadataColumns: []string{"page", "source"},
					InitTable:       true,
					VectorSize:      vectorSize,
				}
			},
		),
		ybengine.FXModule,
		vectorstore.FXModule,
		fx.Populate(&engine, &store),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, []string{"page", "source"}, store.MetadataColumns())
	assert.Equal(t, vectorSize, store.Schema().Dimension)

	ids, err := store.AddTexts(ctx,
		[]string{"foo", "bar", "baz"},
		[]map[string]any{
			{"page": "0", "source": "yugabytedb", "author": "ada", "year": 1990},
			{"page": "1", "source": "yugabytedb", "author": "grace", "year": 2005},
			{"page": "2", "source": "web", "author": "taylor", "year": 2024, "draft": nil},
		},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	t.Run("GetByIDs", func(t *testing.T) {
		docs, err := store.GetByIDs(ctx, []string{ids[2], ids[0]})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "baz", docs[0].Content)
		assert.Equal(t, "web", docs[0].Metadata["source"])
		assert.Equal(t, "taylor", docs[0].Metadata["author"])
		assert.Equal(t, float64(2024), docs[0].Metadata["year"])
		assert.Equal(t, "foo", docs[1].Content)

		docs, err = store.GetByIDs(ctx, []string{strings.ToUpper(ids[1])})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, ids[1], docs[0].ID)
	})

	t.Run("SimilaritySearch", func(t *testing.T) {
		docs, err := store.SimilaritySearch(ctx, "foo", 1, nil)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "foo", docs[0].Content)
		assert.Equal(t, ids[0], docs[0].ID)
		assert.Equal(t, "0", docs[0].Metadata["page"])
	})

	t.Run("SimilaritySearchWithScore", func(t *testing.T) {
		scored, err := store.SimilaritySearchWithScore(ctx, "foo", 3, nil)
		require.NoError(t, err)
		require.Len(t, scored, 3)
		assert.Equal(t, "foo", scored[0].Content)
		assert.InDelta(t, 0, scored[0].Score, 1e-5)
		assert.LessOrEqual(t, scored[1].Score, scored[2].Score)
	})

	t.Run("SimilaritySearchByVector", func(t *testing.T) {
		query, err := embedder.EmbedQuery(ctx, "bar")
		require.NoError(t, err)
		docs, err := store.SimilaritySearchByVector(ctx, query, 1, nil)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "bar", docs[0].Content)

		_, err = store.SimilaritySearchByVector(ctx, query[:10], 1, nil)
		assert.ErrorIs(t, err, vectorstore.ErrConfiguration)
	})

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			name    string
			filters *vectordb.FilterSet
			want    []string
		}{
			{
				"column match",
				vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch("page", "1"))),
				[]string{"bar"},
			},
			{
				"column any",
				vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatchAny("page", "0", "2"))),
				[]string{"foo", "baz"},
			},
			{
				"column except",
				vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatchExcept("source", "web"))),
				[]string{"foo", "bar"},
			},
			{
				"metadata match",
				vectordb.NewFilterSet(vectordb.Must(vectordb.NewMetadataMatch("author", "grace"))),
				[]string{"bar"},
			},
			{
				"metadata range",
				vectordb.NewFilterSet(vectordb.Must(vectordb.NewMetadataNumericRange("year", vectordb.NumericRange{Gte: floatPtr(2000)}))),
				[]string{"bar", "baz"},
			},
			{
				"metadata null",
				vectordb.NewFilterSet(vectordb.Must(vectordb.NewMetadataIsNull("draft"))),
				[]string{"foo", "bar", "baz"},
			},
			{
				"should and must not",
				vectordb.NewFilterSet(
					vectordb.Should(vectordb.NewMetadataMatch("author", "ada"), vectordb.NewMatch("source", "web")),
					vectordb.MustNot(vectordb.NewMatch("page", "2")),
				),
				[]string{"foo"},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				docs, err := store.SimilaritySearch(ctx, "foo", 10, tt.filters)
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.want, contents(docs))
			})
		}

		_, err := store.SimilaritySearch(ctx, "foo", 1, vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch("author", "ada"))))
		assert.ErrorIs(t, err, vectorstore.ErrConfiguration)
	})

	t.Run("MaxMarginalRelevanceSearch", func(t *testing.T) {
		docs, err := store.MaxMarginalRelevanceSearch(ctx, "foo", vectordb.MMRRequest{K: 2, FetchK: 3})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "foo", docs[0].Content)
		assert.NotEqual(t, docs[0].ID, docs[1].ID)

		docs, err = store.MaxMarginalRelevanceSearch(ctx, "foo", vectordb.MMRRequest{
			K:       3,
			Filters: vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch("source", "yugabytedb"))),
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"foo", "bar"}, contents(docs))
	})

	t.Run("distance strategies", func(t *testing.T) {
		for _, strategy := range []vectorstore.DistanceStrategy{vectorstore.Euclidean, vectorstore.InnerProduct} {
			other, err := vectorstore.Create(ctx, engine, embedder, "it_documents",
				vectorstore.WithMetadataColumns("page", "source"),
				vectorstore.WithDistanceStrategy(strategy),
			)
			require.NoError(t, err)

			scored, err := other.SimilaritySearchWithScore(ctx, "foo", 3, nil)
			require.NoError(t, err, strategy)
			require.Len(t, scored, 3)
			assert.LessOrEqual(t, scored[0].Score, scored[1].Score)
			if strategy == vectorstore.Euclidean {
				assert.Equal(t, "foo", scored[0].Content)
				assert.InDelta(t, 0, scored[0].Score, 1e-5)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		deleted, err := store.Delete(ctx, []string{ids[0]})
		require.NoError(t, err)
		assert.True(t, deleted)

		docs, err := store.SimilaritySearch(ctx, "foo", 10, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"bar", "baz"}, contents(docs))

		deleted, err = store.Delete(ctx, []string{ids[0]})
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
