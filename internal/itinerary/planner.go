package itinerary

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"

	"trip-planner/internal/llm"
	"trip-planner/internal/metrics"
	"trip-planner/internal/place"
	"trip-planner/internal/schedule"
	"trip-planner/internal/session"
	"trip-planner/internal/shared"
)

//go:embed generation_prompt.md
var generationPrompt string

var promptTmpl = template.Must(template.New("generation").Parse(generationPrompt))

// Result is a generated itinerary plus everything the caller should know
// about how it was produced. Dropped lists cart places the deterministic
// scheduler could not fit; fewer scheduled activities than cart items is
// expected behavior, not an error.
type Result struct {
	schedule.Itinerary
	Dropped []string          `json:"dropped,omitempty"`
	Hotels  []HotelAssignment `json:"hotels"`
	Source  string            `json:"source"`
}

// Sources for a Result.
const (
	SourceExternal  = "external"
	SourceScheduler = "scheduler"
)

// Planner orchestrates itinerary generation: it asks the external
// generation collaborator first, validates the shape of whatever comes
// back, and falls back to the deterministic scheduler on any failure.
// External failures never surface to the caller.
type Planner struct {
	store        *session.Store
	catalog      *place.Catalog
	textGen      llm.TextGenerator
	repo         *Repository
	metricsStore *metrics.Store
	timeout      time.Duration
}

// NewPlanner creates a Planner. textGen, repo, and metricsStore may be nil;
// a nil textGen skips straight to the deterministic scheduler.
func NewPlanner(
	store *session.Store,
	catalog *place.Catalog,
	textGen llm.TextGenerator,
	repo *Repository,
	metricsStore *metrics.Store,
	timeout time.Duration,
) *Planner {
	return &Planner{
		store:        store,
		catalog:      catalog,
		textGen:      textGen,
		repo:         repo,
		metricsStore: metricsStore,
		timeout:      timeout,
	}
}

// Generate builds an itinerary for the chat's cart. hotels, when present,
// are scored and assigned to day ranges on top of the activity plan. The
// only caller-visible failure is session.ErrEmptyCart.
func (p *Planner) Generate(ctx context.Context, chatID string, hotels []Hotel) (*Result, error) {
	cart := p.store.Cart(chatID)
	if len(cart.Items) == 0 {
		return nil, session.ErrEmptyCart
	}

	// A cart item with count n expands to n repeated entries.
	var places []place.Place
	for _, item := range cart.Items {
		pl, ok := p.catalog.ByName(item.PlaceName)
		if !ok {
			log.Printf("itinerary: cart item %q no longer resolves, skipping", item.PlaceName)
			continue
		}
		for i := 0; i < item.Count; i++ {
			places = append(places, pl)
		}
	}
	if len(places) == 0 {
		return nil, session.ErrEmptyCart
	}

	result := p.tryExternal(ctx, chatID, cart, places)
	if result == nil {
		it, dropped := schedule.Build(chatID, places, cart.NumDays, cart.NumPeople)
		result = &Result{Itinerary: it, Dropped: dropped, Source: SourceScheduler}
	}

	result.Hotels = AssignHotels(hotels, cart.NumDays)
	p.persist(ctx, chatID, result)
	return result, nil
}

// tryExternal calls the generation collaborator under the configured
// timeout and returns nil on any failure or shape violation.
func (p *Planner) tryExternal(ctx context.Context, chatID string, cart session.Cart, places []place.Place) *Result {
	if p.textGen == nil {
		return nil
	}

	prompt, err := buildPrompt(chatID, cart.NumDays, cart.NumPeople, places)
	if err != nil {
		log.Printf("itinerary: failed to build generation prompt: %v", err)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.textGen.GenerateContent(callCtx, prompt)
	p.recordMeta(shared.AgentMeta{
		AgentName: "ItineraryGenerator",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	})
	if err != nil {
		log.Printf("itinerary: external generation failed, falling back: %v", err)
		return nil
	}

	it, err := parseGenerated(resp.Content, chatID, cart.NumDays, cart.NumPeople)
	if err != nil {
		log.Printf("itinerary: external output rejected, falling back: %v", err)
		return nil
	}

	return &Result{Itinerary: *it, Source: SourceExternal}
}

func buildPrompt(chatID string, numDays, numPeople int, places []place.Place) (string, error) {
	placesJSON, err := json.Marshal(places)
	if err != nil {
		return "", fmt.Errorf("failed to marshal places: %w", err)
	}

	var buf bytes.Buffer
	err = promptTmpl.Execute(&buf, struct {
		ChatID     string
		NumDays    int
		NumPeople  int
		PlacesJSON string
	}{chatID, numDays, numPeople, string(placesJSON)})
	if err != nil {
		return "", fmt.Errorf("failed to render generation prompt: %w", err)
	}
	return buf.String(), nil
}

// parseGenerated validates the collaborator's output: it must be JSON with
// exactly numDays day entries numbered 1..numDays contiguously.
func parseGenerated(content, chatID string, numDays, numPeople int) (*schedule.Itinerary, error) {
	content = stripCodeFences(content)

	var it schedule.Itinerary
	if err := json.Unmarshal([]byte(content), &it); err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}

	if len(it.Days) != numDays {
		return nil, fmt.Errorf("generated %d days but %d were requested", len(it.Days), numDays)
	}
	for i, day := range it.Days {
		if day.DayNumber != i+1 {
			return nil, fmt.Errorf("day %d is numbered %d, want contiguous 1..%d", i, day.DayNumber, numDays)
		}
	}

	it.ChatID = chatID
	it.NumPeople = numPeople
	return &it, nil
}

// stripCodeFences unwraps ```json ... ``` blocks that chat models like to
// emit despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

func (p *Planner) recordMeta(meta shared.AgentMeta) {
	if p.metricsStore == nil {
		return
	}
	if err := p.metricsStore.RecordMeta(meta); err != nil {
		log.Printf("itinerary: failed to record metrics: %v", err)
	}
}

func (p *Planner) persist(ctx context.Context, chatID string, result *Result) {
	if p.repo == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("itinerary: failed to marshal result for storage: %v", err)
		return
	}
	if err := p.repo.Save(ctx, chatID, result.Source, data); err != nil {
		log.Printf("itinerary: failed to store itinerary: %v", err)
	}
}
