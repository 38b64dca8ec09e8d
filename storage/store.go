// Package storage persists transcript chunks as vectors so question
// relevance can be checked by similarity search. Three backends:
// in-memory term-frequency (default, no dependencies), pgvector, and
// Milvus. The backend is picked by configuration with a fallback chain
// that always ends at the memory store.
package storage

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"videoInsight/config"
	"videoInsight/core"
	"videoInsight/llm"
)

// VectorStore abstracts the chunk storage backend. Chunks belong to a
// session; a new Upsert for the same session replaces its chunks.
type VectorStore interface {
	Upsert(ctx context.Context, sessionID string, chunks []string) (int, error)
	Search(ctx context.Context, sessionID, query string, topK int) ([]core.Hit, error)
}

// NewVectorStore builds the configured backend, falling back to the
// memory store when the backend cannot be reached or the API
// configuration is missing.
func NewVectorStore(cfg *config.Config, cli llm.Client) VectorStore {
	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case "pgvector":
		if !cfg.HasValidAPI() {
			config.PrintConfigInstructions()
			log.Printf("[storage] API configuration required for pgvector store, falling back to memory store")
			return NewMemoryVectorStore()
		}
		s, err := NewPgVectorStore(cfg, cli)
		if err != nil {
			log.Printf("[storage] failed to initialize pgvector store (%v), falling back to memory store", err)
			return NewMemoryVectorStore()
		}
		return s
	case "milvus":
		if !cfg.HasValidAPI() {
			config.PrintConfigInstructions()
			log.Printf("[storage] API configuration required for milvus store, falling back to memory store")
			return NewMemoryVectorStore()
		}
		s, err := NewMilvusVectorStore(cfg, cli)
		if err != nil {
			log.Printf("[storage] failed to initialize milvus store (%v), falling back to memory store", err)
			return NewMemoryVectorStore()
		}
		return s
	default:
		return NewMemoryVectorStore()
	}
}

// ---------------- Memory implementation ----------------

type memoryDoc struct {
	chunkID int
	text    string
	embed   map[string]float64 // term -> weight
}

// MemoryVectorStore keeps term-frequency vectors in process memory.
type MemoryVectorStore struct {
	mu   sync.RWMutex
	docs map[string][]memoryDoc // sessionID -> docs
}

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{docs: map[string][]memoryDoc{}}
}

func (s *MemoryVectorStore) Upsert(_ context.Context, sessionID string, chunks []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]memoryDoc, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, memoryDoc{chunkID: i, text: chunk, embed: embedTerms(chunk)})
	}
	s.docs[sessionID] = docs
	return len(docs), nil
}

func (s *MemoryVectorStore) Search(_ context.Context, sessionID, query string, topK int) ([]core.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.docs[sessionID]
	qv := embedTerms(query)

	type scored struct {
		i     int
		score float64
	}
	scores := make([]scored, 0, len(docs))
	for i, d := range docs {
		scores = append(scores, scored{i, cosine(qv, d.embed)})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if topK <= 0 || topK > len(scores) {
		topK = len(scores)
	}
	hits := make([]core.Hit, 0, topK)
	for _, sc := range scores[:topK] {
		d := docs[sc.i]
		hits = append(hits, core.Hit{SessionID: sessionID, ChunkID: d.chunkID, Score: sc.score, Text: d.text})
	}
	return hits, nil
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "a": {}, "an": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "that": {},
	"this": {}, "it": {}, "as": {}, "at": {}, "be": {}, "by": {}, "from": {},
	"what": {}, "how": {}, "why": {},
}

func tokenize(s string) []string {
	parts := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, ".,!?;:\"'()[]")
		if p == "" {
			continue
		}
		if _, ok := stopwords[p]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func embedTerms(s string) map[string]float64 {
	vec := map[string]float64{}
	for _, tok := range tokenize(s) {
		vec[tok]++
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, v := range a {
		na += v * v
		if w, ok := b[k]; ok {
			dot += v * w
		}
	}
	for _, w := range b {
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
