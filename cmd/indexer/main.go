// Command indexer embeds every catalog place and stores the vectors in
// SQLite, so the server never has to call the embedding API for the
// catalog at startup. Safe to re-run; already-indexed places are skipped.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"trip-planner/internal/config"
	"trip-planner/internal/database"
	"trip-planner/internal/llm"
	"trip-planner/internal/place"
	"trip-planner/internal/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	catalog, err := place.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	var embedGen llm.EmbeddingGenerator = geminiClient
	if cfg.EmbeddingCachePath != "" {
		cached, err := llm.NewCachedEmbeddingGenerator(geminiClient, cfg.EmbeddingCachePath)
		if err != nil {
			log.Fatalf("Failed to initialize embedding cache: %v", err)
		}
		defer func() {
			if err := cached.SaveCache(); err != nil {
				log.Printf("Failed to save embedding cache: %v", err)
			}
		}()
		embedGen = cached
	}

	engine := search.NewEngine(catalog, embedGen, search.NewVectorRepository(db.SQL))
	indexed, err := engine.Index(ctx)
	if err != nil {
		log.Fatalf("Indexing failed after %d places: %v", indexed, err)
	}
	log.Printf("Indexed %d of %d places", indexed, catalog.Len())
}
