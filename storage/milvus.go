package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"videoInsight/config"
	"videoInsight/core"
	"videoInsight/llm"
)

const milvusCollection = "transcript_chunks"

// MilvusVectorStore keeps transcript chunks in a Milvus collection.
type MilvusVectorStore struct {
	mc   client.Client
	cli  llm.Client
	coll string
	dim  int
}

func NewMilvusVectorStore(cfg *config.Config, cli llm.Client) (*MilvusVectorStore, error) {
	mc, err := client.NewClient(context.Background(), client.Config{Address: cfg.MilvusAddr})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	s := &MilvusVectorStore{mc: mc, cli: cli, coll: milvusCollection, dim: embeddingDim}
	if err := s.ensureSchemaAndIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MilvusVectorStore) ensureSchemaAndIndex() error {
	ctx := context.Background()
	has, err := s.mc.HasCollection(ctx, s.coll)
	if err != nil {
		return err
	}
	if !has {
		schema := entity.NewSchema()
		schema.WithField(entity.NewField().WithName("id").WithIsAutoID(true).WithIsPrimaryKey(true).WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName("session_id").WithDataType(entity.FieldTypeVarChar).WithMaxLength(128))
		schema.WithField(entity.NewField().WithName("chunk_id").WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName("content").WithDataType(entity.FieldTypeVarChar).WithMaxLength(4096))
		schema.WithField(entity.NewField().WithName("vector").WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))

		if err := s.mc.CreateCollection(ctx, schema, int32(2)); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}
	idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
	if err != nil {
		return fmt.Errorf("new hnsw index: %w", err)
	}
	if err := s.mc.CreateIndex(ctx, s.coll, "vector", idx, false, client.WithIndexName("idx_vector")); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := s.mc.LoadCollection(ctx, s.coll, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

func sessionFilter(sessionID string) string {
	return fmt.Sprintf("session_id == \"%s\"", strings.ReplaceAll(sessionID, "\"", "\\\""))
}

// Upsert replaces the session's chunks in the collection.
func (s *MilvusVectorStore) Upsert(ctx context.Context, sessionID string, chunks []string) (int, error) {
	if err := s.mc.Delete(ctx, s.coll, "", sessionFilter(sessionID)); err != nil {
		return 0, fmt.Errorf("clear session chunks: %w", err)
	}

	sessionIDs := make([]string, 0, len(chunks))
	chunkIDs := make([]int64, 0, len(chunks))
	contents := make([]string, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))

	for i, chunk := range chunks {
		vec, err := s.cli.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		sessionIDs = append(sessionIDs, sessionID)
		chunkIDs = append(chunkIDs, int64(i))
		contents = append(contents, chunk)
		vectors = append(vectors, vec)
	}
	if len(vectors) == 0 {
		return 0, nil
	}

	_, err := s.mc.Insert(ctx, s.coll, "",
		entity.NewColumnVarChar("session_id", sessionIDs),
		entity.NewColumnInt64("chunk_id", chunkIDs),
		entity.NewColumnVarChar("content", contents),
		entity.NewColumnFloatVector("vector", s.dim, vectors),
	)
	if err != nil {
		return 0, fmt.Errorf("insert chunks: %w", err)
	}
	return len(vectors), nil
}

func (s *MilvusVectorStore) Search(ctx context.Context, sessionID, query string, topK int) ([]core.Hit, error) {
	if topK <= 0 {
		topK = 5
	}
	qv, err := s.cli.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	sp, _ := entity.NewIndexHNSWSearchParam(74)
	res, err := s.mc.Search(ctx, s.coll, []string{}, sessionFilter(sessionID),
		[]string{"chunk_id", "content"},
		[]entity.Vector{entity.FloatVector(qv)}, "vector", entity.COSINE, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	var hits []core.Hit
	for _, r := range res {
		cols := map[string]entity.Column{}
		for _, c := range r.Fields {
			cols[c.Name()] = c
		}
		for i := 0; i < r.ResultCount; i++ {
			var chunkID int
			var content string
			if c, ok := cols["chunk_id"].(*entity.ColumnInt64); ok {
				if data := c.Data(); i < len(data) {
					chunkID = int(data[i])
				}
			}
			if c, ok := cols["content"].(*entity.ColumnVarChar); ok {
				if data := c.Data(); i < len(data) {
					content = data[i]
				}
			}
			hits = append(hits, core.Hit{
				SessionID: sessionID,
				ChunkID:   chunkID,
				Score:     float64(r.Scores[i]),
				Text:      content,
			})
		}
	}
	return hits, nil
}
