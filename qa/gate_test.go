package qa

import (
	"context"
	"testing"

	"videoInsight/storage"
)

func TestEmbeddingGate(t *testing.T) {
	store := storage.NewMemoryVectorStore()
	if _, err := store.Upsert(context.Background(), "s1",
		[]string{"water boils at 100 degrees celsius", "the speaker thanks the audience"}); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	sessions := NewSessionStore()
	session := sessions.GetOrCreate("s1")
	session.SetTranscript(waterTranscript)

	gate := EmbeddingGate{Store: store, Threshold: 0.1}

	inScope, err := gate.InScope(context.Background(), session, "water boiling temperature degrees")
	if err != nil {
		t.Fatalf("InScope() failed: %v", err)
	}
	if !inScope {
		t.Error("related question was gated out")
	}

	inScope, err = gate.InScope(context.Background(), session, "quantum entanglement qubits")
	if err != nil {
		t.Fatalf("InScope() failed: %v", err)
	}
	if inScope {
		t.Error("unrelated question passed the gate")
	}
}
