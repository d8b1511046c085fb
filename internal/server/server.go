package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"trip-planner/internal/itinerary"
	"trip-planner/internal/metrics"
	"trip-planner/internal/place"
	"trip-planner/internal/session"
)

// Recommender is the ranking collaborator surface the handlers use. Its
// result ordering (descending relevance, stable ties) is trusted as-is.
type Recommender interface {
	Search(ctx context.Context, query string, topK int, exclude []string) ([]place.Place, error)
}

// Generator produces itineraries for a chat's cart.
type Generator interface {
	Generate(ctx context.Context, chatID string, hotels []itinerary.Hotel) (*itinerary.Result, error)
}

// Server wires the session store, catalog, search engine, and itinerary
// planner into the HTTP API.
type Server struct {
	store       *session.Store
	catalog     *place.Catalog
	engine      Recommender
	planner     Generator
	itineraries *itinerary.Repository
	metrics     *metrics.Store
	dataDir     string
}

// New creates a Server. itineraries and metricsStore may be nil, which
// disables the stored itinerary listing and the usage view respectively.
func New(
	store *session.Store,
	catalog *place.Catalog,
	engine Recommender,
	planner Generator,
	itineraries *itinerary.Repository,
	metricsStore *metrics.Store,
	dataDir string,
) *Server {
	return &Server{
		store:       store,
		catalog:     catalog,
		engine:      engine,
		planner:     planner,
		itineraries: itineraries,
		metrics:     metricsStore,
		dataDir:     dataDir,
	}
}

// Router builds the route table.
func (s *Server) Router(rl *RateLimiter) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", s.handleHealth)

	router.POST("/api/v1/activities/message", rl.Limit(s.handleMessage))
	router.POST("/api/v1/activities/cart/add", rl.Limit(s.handleCartAdd))
	router.GET("/api/v1/activities/cart/:chat_id", rl.Limit(s.handleCartGet))
	router.POST("/api/v1/activities/cart/remove", rl.Limit(s.handleCartRemove))
	router.POST("/api/v1/activities/cart/update", rl.Limit(s.handleCartUpdate))
	router.POST("/api/v1/activities/itinerary/:chat_id", rl.Limit(s.handleItineraryGenerate))
	router.GET("/api/v1/activities/search", rl.Limit(s.handleSearch))
	router.GET("/api/v1/itineraries/:chat_id", rl.Limit(s.handleItinerariesList))
	router.GET("/api/v1/metrics/usage", rl.Limit(s.handleUsage))

	return router
}

// Handler wraps the router with CORS, security headers, and request logging.
func (s *Server) Handler(rl *RateLimiter) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.Router(rl))

	return loggingMiddleware(securityHeaders(corsHandler))
}

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}
