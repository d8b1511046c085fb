package llm

import (
	"context"
	"fmt"

	"trip-planner/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiEmbeddingModel = "text-embedding-004"

// geminiClient generates embeddings through the Google Gemini API. It is
// the ranking collaborator's embedding backend.
type geminiClient struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewGeminiClient creates a new Gemini embedding client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{
		client: client,
		model:  client.EmbeddingModel(geminiEmbeddingModel),
	}, nil
}

// GenerateEmbedding returns the embedding vector for the given text.
func (c *geminiClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding generated")
	}
	return resp.Embedding.Values, nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}
