package qa

import (
	"context"

	"videoInsight/storage"
)

// ScopeGate decides whether a question should be forwarded to the
// reasoning service at all. Gates are heuristics; out-of-scope questions
// get the fixed sentinel response without any service call.
type ScopeGate interface {
	InScope(ctx context.Context, session *Session, question string) (bool, error)
}

// SubstringGate is the default gate: the question must appear verbatim
// (case-insensitively) in the transcript. Intentionally crude.
type SubstringGate struct{}

func (SubstringGate) InScope(_ context.Context, session *Session, question string) (bool, error) {
	return session.Index.Contains(question), nil
}

// EmbeddingGate checks relevance with a vector store search over the
// session's transcript chunks. A question is in scope when its best hit
// scores at or above the threshold.
type EmbeddingGate struct {
	Store     storage.VectorStore
	Threshold float64
	TopK      int
}

func (g EmbeddingGate) InScope(ctx context.Context, session *Session, question string) (bool, error) {
	topK := g.TopK
	if topK <= 0 {
		topK = 3
	}
	hits, err := g.Store.Search(ctx, session.ID, question, topK)
	if err != nil {
		return false, err
	}
	return len(hits) > 0 && hits[0].Score >= g.Threshold, nil
}
