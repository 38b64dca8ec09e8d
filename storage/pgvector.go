package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"videoInsight/config"
	"videoInsight/core"
	"videoInsight/llm"
)

const embeddingDim = 1536

// PgVectorStore keeps transcript chunks in PostgreSQL with pgvector.
type PgVectorStore struct {
	conn *pgx.Conn
	cli  llm.Client
}

func NewPgVectorStore(cfg *config.Config, cli llm.Client) (*PgVectorStore, error) {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PgVectorStore{conn: conn, cli: cli}
	if err := s.ensureTable(ctx); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *PgVectorStore) ensureTable(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	_, err := s.conn.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS transcript_chunks (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			chunk_id INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d)
		)`, embeddingDim))
	if err != nil {
		return fmt.Errorf("create transcript_chunks table: %w", err)
	}
	if _, err := s.conn.Exec(ctx,
		"CREATE INDEX IF NOT EXISTS idx_transcript_chunks_session ON transcript_chunks(session_id)"); err != nil {
		return fmt.Errorf("create session index: %w", err)
	}
	if _, err := s.conn.Exec(ctx,
		"CREATE INDEX IF NOT EXISTS idx_transcript_chunks_embedding ON transcript_chunks USING hnsw (embedding vector_cosine_ops)"); err != nil {
		return fmt.Errorf("create embedding index: %w", err)
	}
	return nil
}

// Upsert replaces the session's chunks. Each chunk is embedded through
// the generation service before insertion.
func (s *PgVectorStore) Upsert(ctx context.Context, sessionID string, chunks []string) (int, error) {
	if _, err := s.conn.Exec(ctx, "DELETE FROM transcript_chunks WHERE session_id = $1", sessionID); err != nil {
		return 0, fmt.Errorf("clear session chunks: %w", err)
	}

	count := 0
	for i, chunk := range chunks {
		vec, err := s.cli.Embed(ctx, chunk)
		if err != nil {
			return count, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		_, err = s.conn.Exec(ctx,
			"INSERT INTO transcript_chunks (session_id, chunk_id, content, embedding) VALUES ($1, $2, $3, $4)",
			sessionID, i, chunk, pgvector.NewVector(vec))
		if err != nil {
			return count, fmt.Errorf("insert chunk %d: %w", i, err)
		}
		count++
	}
	return count, nil
}

func (s *PgVectorStore) Search(ctx context.Context, sessionID, query string, topK int) ([]core.Hit, error) {
	if topK <= 0 {
		topK = 5
	}
	qv, err := s.cli.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT chunk_id, content, 1 - (embedding <=> $2) AS score
		FROM transcript_chunks
		WHERE session_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3`,
		sessionID, pgvector.NewVector(qv), topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var hits []core.Hit
	for rows.Next() {
		var h core.Hit
		if err := rows.Scan(&h.ChunkID, &h.Text, &h.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.SessionID = sessionID
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *PgVectorStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
