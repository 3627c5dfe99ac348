package embedding

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
)

// DeterministicFake returns pseudo-random embeddings seeded from the text, so
// the same text always maps to the same vector. It needs no network and is
// meant for tests and local development.
type DeterministicFake struct {
	Size int
}

// NewDeterministicFake returns a fake embedder producing vectors of the given size.
func NewDeterministicFake(size int) *DeterministicFake {
	return &DeterministicFake{Size: size}
}

func (f *DeterministicFake) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = f.embed(text)
	}
	return out, nil
}

func (f *DeterministicFake) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.embed(text), nil
}

func (f *DeterministicFake) embed(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	v := make([]float32, f.Size)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}
