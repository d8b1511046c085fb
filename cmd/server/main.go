package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trip-planner/internal/config"
	"trip-planner/internal/database"
	"trip-planner/internal/itinerary"
	"trip-planner/internal/llm"
	"trip-planner/internal/metrics"
	"trip-planner/internal/place"
	"trip-planner/internal/search"
	"trip-planner/internal/server"
	"trip-planner/internal/session"
)

const metricsRetentionDays = 30

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
	log.Printf("Loaded %d places from catalog", catalog.Len())

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

	groqClient := llm.NewGroqClient(cfg)

	vectorRepo := search.NewVectorRepository(db.SQL)
	engine := search.NewEngine(catalog, embedGen, vectorRepo)
	if err := engine.Load(ctx); err != nil {
		log.Fatalf("Failed to load search index: %v", err)
	}

	store := session.NewStore()
	metricsStore := metrics.NewStore(db.SQL)
	itineraryRepo := itinerary.NewRepository(db.SQL)
	planner := itinerary.NewPlanner(store, catalog, groqClient, itineraryRepo, metricsStore, cfg.GenerationTimeout)

	// Daily retention sweep over collaborator call metrics.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := metricsStore.Cleanup(metricsRetentionDays)
			if err != nil {
				log.Printf("Metrics cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("Metrics cleanup removed %d records", deleted)
			}
		}
	}()

	srv := server.New(store, catalog, engine, planner, itineraryRepo, metricsStore, filepath.Dir(cfg.DatabasePath))
	rateLimiter := server.NewRateLimiter()

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
