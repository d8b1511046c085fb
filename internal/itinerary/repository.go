package itinerary

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// StoredItinerary is a previously generated itinerary.
type StoredItinerary struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Source    string    `json:"source"`
	PlanData  []byte    `json:"plan_data"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is a database-backed store for generated itineraries. Each
// itinerary gets a ULID id so listings sort by creation time.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a generated itinerary as raw JSON. Entropy is fresh per
// call; a shared MonotonicEntropy is not safe under concurrent handlers.
func (r *Repository) Save(ctx context.Context, chatID, source string, planData []byte) error {
	now := time.Now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO itineraries (id, chat_id, source, plan_data, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, chatID, source, planData, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert itinerary for chat %s: %w", chatID, err)
	}
	return nil
}

// ListRecentByChatID retrieves the N most recent itineraries for a chat.
func (r *Repository) ListRecentByChatID(ctx context.Context, chatID string, limit int) ([]StoredItinerary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, source, plan_data, created_at
		 FROM itineraries WHERE chat_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries for chat %s: %w", chatID, err)
	}
	defer rows.Close()

	var out []StoredItinerary
	for rows.Next() {
		var s StoredItinerary
		if err := rows.Scan(&s.ID, &s.ChatID, &s.Source, &s.PlanData, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
