package search

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
)

// VectorRepository persists place embeddings in SQLite so the server does
// not re-embed the catalog on every start.
type VectorRepository struct {
	db *sql.DB
}

// NewVectorRepository creates a repository over an existing connection.
func NewVectorRepository(db *sql.DB) *VectorRepository {
	return &VectorRepository{db: db}
}

// Save inserts or replaces the embedding for a place.
func (r *VectorRepository) Save(ctx context.Context, placeName string, embedding []float32) error {
	blob, err := float32SliceToByteSlice(embedding)
	if err != nil {
		return fmt.Errorf("failed to convert float32 slice to byte slice: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO place_embeddings (place_name, embedding) VALUES (?, ?)
		 ON CONFLICT(place_name) DO UPDATE SET embedding = excluded.embedding`,
		placeName, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to save embedding for %s: %w", placeName, err)
	}
	return nil
}

// Get returns the stored embedding for a place, or nil when absent.
func (r *VectorRepository) Get(ctx context.Context, placeName string) ([]float32, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT embedding FROM place_embeddings WHERE place_name = ?`, placeName,
	).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get embedding for %s: %w", placeName, err)
	}
	return byteSliceToFloat32Slice(blob)
}

// All returns every stored embedding keyed by place name.
func (r *VectorRepository) All(ctx context.Context) (map[string][]float32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT place_name, embedding FROM place_embeddings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list embeddings: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float32)
	for rows.Next() {
		var name string
		var blob []byte
		if err := rows.Scan(&name, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		vec, err := byteSliceToFloat32Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s: %w", name, err)
		}
		out[name] = vec
	}
	return out, rows.Err()
}

// float32SliceToByteSlice converts a slice of float32 to a byte slice.
func float32SliceToByteSlice(floats []float32) ([]byte, error) {
	if len(floats) == 0 {
		return nil, nil
	}
	buf := make([]byte, 4*len(floats)) // 4 bytes per float32
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(f))
	}
	return buf, nil
}

// byteSliceToFloat32Slice converts a byte slice to a slice of float32.
func byteSliceToFloat32Slice(bytes []byte) ([]float32, error) {
	if len(bytes) == 0 {
		return nil, nil
	}
	if len(bytes)%4 != 0 {
		return nil, fmt.Errorf("byte slice length is not a multiple of 4")
	}
	floats := make([]float32, len(bytes)/4)
	for i := 0; i < len(bytes)/4; i++ {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4 : (i+1)*4]))
	}
	return floats, nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
