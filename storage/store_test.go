package storage

import (
	"context"
	"testing"
)

func TestMemoryVectorStoreSearch(t *testing.T) {
	store := NewMemoryVectorStore()
	chunks := []string{
		"water boils at 100 degrees celsius at sea level",
		"the lecture moves on to atmospheric pressure",
		"closing remarks and thanks to the audience",
	}
	n, err := store.Upsert(context.Background(), "s1", chunks)
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if n != len(chunks) {
		t.Fatalf("stored %d chunks, want %d", n, len(chunks))
	}

	hits, err := store.Search(context.Background(), "s1", "boiling water degrees", 2)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ChunkID != 0 {
		t.Errorf("best hit is chunk %d, want 0", hits[0].ChunkID)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits are not sorted by descending score")
	}
}

func TestMemoryVectorStoreSessionIsolation(t *testing.T) {
	store := NewMemoryVectorStore()
	if _, err := store.Upsert(context.Background(), "a", []string{"alpha content"}); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	hits, err := store.Search(context.Background(), "b", "alpha", 5)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("session b sees %d hits from session a", len(hits))
	}
}

func TestMemoryVectorStoreUpsertReplaces(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()
	if _, err := store.Upsert(ctx, "s1", []string{"old transcript content"}); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if _, err := store.Upsert(ctx, "s1", []string{"brand new material"}); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	hits, err := store.Search(ctx, "s1", "old transcript", 5)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	for _, h := range hits {
		if h.Text == "old transcript content" {
			t.Error("stale chunk survived re-upsert")
		}
	}
}
