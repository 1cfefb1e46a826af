package knowledge

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/solartech-poc/solarbot/internal/agent/model"
	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

const collectionName = "solar_knowledge"

// PassageSource is one extracted fragment headed for the index. The triple
// (DocID, Page, Chunk) forms the document id, so re-ingesting the same
// corpus replaces passages instead of duplicating them.
type PassageSource struct {
	DocID  string
	Source string
	Page   int
	Chunk  int
	Text   string
}

// Store wraps a chromem collection behind the retrieval contract the
// orchestrator consumes. Queries fail soft at the orchestrator; here errors
// are returned as-is.
type Store struct {
	col *chromem.Collection
}

// NewStore opens the vector index. An empty path keeps the whole index in
// memory and rebuilds it on every boot; a non-empty path persists it on disk.
func NewStore(path string, embed chromem.EmbeddingFunc) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", collectionName, err)
	}
	return &Store{col: col}, nil
}

// Ingest upserts the passages and returns how many were indexed.
func (s *Store) Ingest(ctx context.Context, passages []PassageSource) (int, error) {
	indexed := 0
	for _, p := range passages {
		doc := chromem.Document{
			ID:      fmt.Sprintf("%s:%d:%d", p.DocID, p.Page, p.Chunk),
			Content: p.Text,
			Metadata: map[string]string{
				"source": p.Source,
				"page":   strconv.Itoa(p.Page),
			},
		}
		if err := s.col.AddDocument(ctx, doc); err != nil {
			return indexed, fmt.Errorf("index passage %s: %w", doc.ID, err)
		}
		indexed++
	}
	return indexed, nil
}

// Len reports the number of indexed passages.
func (s *Store) Len() int {
	return s.col.Count()
}

// Search returns the topK most similar passages, best first. k is clamped to
// the collection size; an empty collection yields no hits and no error.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]model.Passage, error) {
	count := s.col.Count()
	if count == 0 || topK <= 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.col.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	out := make([]model.Passage, 0, len(results))
	for _, r := range results {
		page, err := strconv.Atoi(r.Metadata["page"])
		if err != nil {
			logx.Warn().Str("id", r.ID).Str("page", r.Metadata["page"]).Msg("passage with unparseable page marker")
		}
		out = append(out, model.Passage{
			Text:   r.Content,
			Source: r.Metadata["source"],
			Page:   page,
			Score:  r.Similarity,
		})
	}
	return out, nil
}

var _ model.Retriever = (*Store)(nil)
