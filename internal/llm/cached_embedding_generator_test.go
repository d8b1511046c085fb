package llm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{1, 2, 3}, nil
}

func TestCachedEmbeddingGenerator(t *testing.T) {
	ctx := context.Background()
	cachePath := filepath.Join(t.TempDir(), "cache", "embeddings.json")
	real := &countingEmbedder{}

	gen, err := NewCachedEmbeddingGenerator(real, cachePath)
	if err != nil {
		t.Fatalf("NewCachedEmbeddingGenerator: %v", err)
	}

	if _, err := gen.GenerateEmbedding(ctx, "beach day"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := gen.GenerateEmbedding(ctx, "beach day"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if real.calls != 1 {
		t.Errorf("real generator called %d times, want 1", real.calls)
	}

	if err := gen.SaveCache(); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	// A fresh generator over the saved file serves from the cache.
	real2 := &countingEmbedder{err: errors.New("should not be called")}
	gen2, err := NewCachedEmbeddingGenerator(real2, cachePath)
	if err != nil {
		t.Fatalf("reopening cache: %v", err)
	}
	vec, err := gen2.GenerateEmbedding(ctx, "beach day")
	if err != nil {
		t.Fatalf("cached call: %v", err)
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("cached vector = %v", vec)
	}
	if real2.calls != 0 {
		t.Errorf("real generator called %d times for a cached text", real2.calls)
	}
}

func TestCachedEmbeddingGeneratorPropagatesErrors(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "embeddings.json")
	real := &countingEmbedder{err: errors.New("quota exceeded")}

	gen, err := NewCachedEmbeddingGenerator(real, cachePath)
	if err != nil {
		t.Fatalf("NewCachedEmbeddingGenerator: %v", err)
	}
	if _, err := gen.GenerateEmbedding(context.Background(), "beach"); err == nil {
		t.Error("error from the real generator was swallowed")
	}
}
