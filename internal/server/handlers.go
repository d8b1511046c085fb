package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"trip-planner/internal/itinerary"
	"trip-planner/internal/metrics"
	"trip-planner/internal/place"
	"trip-planner/internal/session"
)

const recommendationTopK = 5

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	respondWithJSON(w, http.StatusOK, M{
		"status": "healthy",
		"sys":    metrics.GetSysHealth(s.dataDir),
	})
}

type messageRequest struct {
	ChatID  string `json:"chat_id"`
	User    string `json:"user"`
	Message string `json:"message"`
}

// handleMessage folds a chat message into the session and, when the line
// count crosses a recommendation threshold, returns ranked candidates. A
// ranking collaborator failure degrades to an empty recommendation list
// rather than failing the message post.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ChatID == "" || req.User == "" {
		respondError(w, http.StatusBadRequest, "chat_id and user are required")
		return
	}

	count, triggered, query := s.store.RecordMessage(req.ChatID, req.User, req.Message)

	recommendations := []place.Place{}
	if triggered && query != "" {
		exclude := s.store.CartPlaceNames(req.ChatID)
		results, err := s.engine.Search(r.Context(), query, recommendationTopK, exclude)
		if err != nil {
			log.Printf("handleMessage: search failed for chat %s: %v", req.ChatID, err)
		} else {
			recommendations = results
		}
	}

	respondWithJSON(w, http.StatusOK, M{
		"message_count":   count,
		"participants":    s.store.Participants(req.ChatID),
		"trigger_rec":     triggered,
		"recommendations": recommendations,
	})
}

type cartAddRequest struct {
	ChatID    string `json:"chat_id"`
	User      string `json:"user"`
	PlaceName string `json:"place_name"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ChatID == "" || req.PlaceName == "" {
		respondError(w, http.StatusBadRequest, "chat_id and place_name are required")
		return
	}

	if _, ok := s.catalog.ByName(req.PlaceName); !ok {
		respondError(w, http.StatusNotFound, session.ErrPlaceNotFound.Error())
		return
	}

	cart, err := s.store.AddToCart(req.ChatID, req.PlaceName, req.User)
	if err != nil {
		if errors.Is(err, session.ErrCartFull) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	respondWithJSON(w, http.StatusOK, M{"status": "success", "cart": cart})
}

func (s *Server) handleCartGet(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	chatID := ps.ByName("chat_id")
	respondWithJSON(w, http.StatusOK, s.store.Cart(chatID))
}

type cartRemoveRequest struct {
	ChatID    string `json:"chat_id"`
	PlaceName string `json:"place_name"`
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cartRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ChatID == "" {
		respondError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	cart := s.store.RemoveFromCart(req.ChatID, req.PlaceName)
	respondWithJSON(w, http.StatusOK, M{"status": "success", "cart": cart})
}

type cartUpdateRequest struct {
	ChatID    string `json:"chat_id"`
	NumDays   int    `json:"num_days"`
	NumPeople int    `json:"num_people"`
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ChatID == "" {
		respondError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	if err := s.store.UpdateCartSettings(req.ChatID, req.NumDays, req.NumPeople); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, M{"status": "success"})
}

type generateRequest struct {
	Hotels []itinerary.Hotel `json:"hotels"`
}

// handleItineraryGenerate produces the day-by-day plan for a chat's cart.
// The request body is optional and may carry cart hotels for assignment.
func (s *Server) handleItineraryGenerate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	chatID := ps.ByName("chat_id")

	var req generateRequest
	if r.Body != nil {
		// A missing or empty body just means no hotels.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := s.planner.Generate(r.Context(), chatID, req.Hotels)
	if err != nil {
		if errors.Is(err, session.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("handleItineraryGenerate: chat %s: %v", chatID, err)
		respondError(w, http.StatusInternalServerError, "failed to generate itinerary")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	topK := recommendationTopK
	if v := r.URL.Query().Get("top_k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			topK = n
		}
	}

	results, err := s.engine.Search(r.Context(), query, topK, nil)
	if err != nil {
		log.Printf("handleSearch: %v", err)
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if len(results) == 0 {
		respondError(w, http.StatusNotFound, "No matches found")
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}

func (s *Server) handleItinerariesList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	chatID := ps.ByName("chat_id")

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if s.itineraries == nil {
		respondWithJSON(w, http.StatusOK, []storedItineraryResponse{})
		return
	}

	stored, err := s.itineraries.ListRecentByChatID(r.Context(), chatID, limit)
	if err != nil {
		log.Printf("handleItinerariesList: chat %s: %v", chatID, err)
		respondError(w, http.StatusInternalServerError, "failed to list itineraries")
		return
	}

	out := make([]storedItineraryResponse, 0, len(stored))
	for _, s := range stored {
		out = append(out, storedItineraryResponse{
			ID:        s.ID,
			ChatID:    s.ChatID,
			Source:    s.Source,
			Plan:      json.RawMessage(s.PlanData),
			CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

// handleUsage reports per-day token usage of the generation collaborator.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	if s.metrics == nil {
		respondWithJSON(w, http.StatusOK, []metrics.DailyUsage{})
		return
	}

	usage, err := s.metrics.GetDailyUsage(days)
	if err != nil {
		log.Printf("handleUsage: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load usage")
		return
	}
	if usage == nil {
		usage = []metrics.DailyUsage{}
	}
	respondWithJSON(w, http.StatusOK, usage)
}

type storedItineraryResponse struct {
	ID        string          `json:"id"`
	ChatID    string          `json:"chat_id"`
	Source    string          `json:"source"`
	Plan      json.RawMessage `json:"plan"`
	CreatedAt string          `json:"created_at"`
}
