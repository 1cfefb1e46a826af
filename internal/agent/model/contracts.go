package model

import "context"

// LeadRepository is the conversation-store contract the orchestrator composes
// against. Every operation is transactional at single-call granularity; the
// orchestrator never assumes cross-call atomicity and serializes turns per
// lead itself.
type LeadRepository interface {
	// GetOrCreate resolves a lead by external id, creating it with the
	// default stage when absent. The second result reports creation.
	// Concurrent first calls for a new id must yield exactly one record.
	GetOrCreate(ctx context.Context, externalID string) (*Lead, bool, error)

	// Update patches only the fields present in patch and returns the
	// updated lead.
	Update(ctx context.Context, externalID string, patch LeadPatch) (*Lead, error)

	// RecentMessages returns at most limit messages, oldest first. Persisted
	// order equals conversational order.
	RecentMessages(ctx context.Context, externalID string, limit int) ([]ChatMessage, error)

	// AppendExchange persists the user/assistant pair of one completed turn
	// atomically, user message first.
	AppendExchange(ctx context.Context, externalID, userText, assistantText string) error

	// MessageCount reports the number of persisted messages for a lead.
	MessageCount(ctx context.Context, externalID string) (int, error)
}

// Retriever is the knowledge-store contract. Implementations fail soft:
// backend errors surface as an error here but the orchestrator degrades to
// an empty context rather than aborting the turn.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}
