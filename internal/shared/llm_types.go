package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a collaborator request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for one collaborator call, recorded
// by the metrics store.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
