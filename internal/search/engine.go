package search

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trip-planner/internal/llm"
	"trip-planner/internal/place"
)

// Engine ranks catalog places against free-text queries. It is the ranking
// collaborator the session layer trusts: results come back ordered by
// descending relevance with name as a stable tie break, and nothing
// downstream re-ranks them.
type Engine struct {
	catalog  *place.Catalog
	embedGen llm.EmbeddingGenerator
	repo     *VectorRepository

	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewEngine creates an Engine over a loaded catalog.
func NewEngine(catalog *place.Catalog, embedGen llm.EmbeddingGenerator, repo *VectorRepository) *Engine {
	return &Engine{
		catalog:  catalog,
		embedGen: embedGen,
		repo:     repo,
		vectors:  make(map[string][]float32),
	}
}

// Load pulls all stored place embeddings into memory. Places missing from
// the repository simply never rank; run the indexer to fill them in.
func (e *Engine) Load(ctx context.Context) error {
	vectors, err := e.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load place embeddings: %w", err)
	}

	e.mu.Lock()
	e.vectors = vectors
	e.mu.Unlock()
	return nil
}

// Index embeds every catalog place that has no stored embedding yet and
// persists the vectors. It returns the number of places embedded.
func (e *Engine) Index(ctx context.Context) (int, error) {
	indexed := 0
	for _, p := range e.catalog.All() {
		existing, err := e.repo.Get(ctx, p.Name)
		if err != nil {
			return indexed, err
		}
		if existing != nil {
			continue
		}

		text, _ := e.catalog.Text(p.Name)
		vec, err := e.embedGen.GenerateEmbedding(ctx, text)
		if err != nil {
			return indexed, fmt.Errorf("failed to embed %s: %w", p.Name, err)
		}
		if err := e.repo.Save(ctx, p.Name, vec); err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}

// Search embeds the query and returns the topK most similar places, best
// first, skipping excluded names. Scores are cosine similarities.
func (e *Engine) Search(ctx context.Context, query string, topK int, exclude []string) ([]place.Place, error) {
	queryVec, err := e.embedGen.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	excludeSet := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excludeSet[name] = struct{}{}
	}

	e.mu.RLock()
	type scored struct {
		name  string
		score float64
	}
	results := make([]scored, 0, len(e.vectors))
	for name, vec := range e.vectors {
		if _, skip := excludeSet[name]; skip {
			continue
		}
		results = append(results, scored{name: name, score: cosineSimilarity(queryVec, vec)})
	}
	e.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].name < results[j].name
	})

	if topK > len(results) {
		topK = len(results)
	}

	places := make([]place.Place, 0, topK)
	for _, r := range results[:topK] {
		p, ok := e.catalog.ByName(r.name)
		if !ok {
			continue
		}
		p.Score = r.score
		places = append(places, p)
	}
	return places, nil
}
