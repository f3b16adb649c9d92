// Package redis implements vector-store operations on Redis Search:
// one FLAT vector index shared by all logical stores, partitioned by a
// store tag.
package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
)

const (
	redisDialectVersion = 2
	keyPrefix           = "vs:"
)

// Store implements domain.VectorStore on Redis.
type Store struct {
	client             *redis.Client
	indexName          string
	embeddingDimension int
}

// NewStore creates a Redis vector store and ensures its search index exists.
func NewStore(client *redis.Client, indexName string, embeddingDimension int) (*Store, error) {
	s := &Store{
		client:             client,
		indexName:          indexName,
		embeddingDimension: embeddingDimension,
	}

	if err := s.createIndex(); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return s, nil
}

// floatsToBytes converts a float64 slice to its binary representation.
func floatsToBytes(fs []float64) []byte {
	const bytesPerFloat32 = 4
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		// Convert float64 to float32 for Redis compatibility
		u := math.Float32bits(float32(f))
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

// Index stores a vector with associated data under the named store.
func (s *Store) Index(
	ctx context.Context,
	store, key string,
	embedding []float64,
	data []byte,
	ttl time.Duration,
) error {
	logger := observability.FromContext(ctx)
	logger.Debug("indexing vector",
		observability.String("store", store),
		observability.String("key", key),
		observability.Int("embedding_dim", len(embedding)))

	fullKey := keyPrefix + store + ":" + key
	embeddingBytes := floatsToBytes(embedding)

	pipe := s.client.Pipeline()

	pipe.HSet(ctx, fullKey,
		"embedding", embeddingBytes,
		"store", store,
		"data", string(data),
		"indexed_at", time.Now().Unix(),
	)

	if ttl > 0 {
		pipe.Expire(ctx, fullKey, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("vector index failed", observability.Error(err))
		return fmt.Errorf("failed to index: %w", err)
	}

	return nil
}

// Search finds vectors in the named store with similarity above the
// threshold.
func (s *Store) Search(
	ctx context.Context,
	store string,
	embedding []float64,
	threshold float64,
	limit int,
) ([]*domain.VectorMatch, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("starting vector search",
		observability.String("index", s.indexName),
		observability.String("store", store),
		observability.Float64("threshold", threshold),
		observability.Int("limit", limit))

	query := fmt.Sprintf("@store:{%s}=>[KNN %d @embedding $vec AS score]", store, limit)

	results, err := s.client.FTSearchWithArgs(ctx, s.indexName, query,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: "data"},
				{FieldName: "indexed_at"},
				{FieldName: "score"},
			},
			DialectVersion: redisDialectVersion,
			Params: map[string]any{
				"vec": floatsToBytes(embedding),
			},
		},
	).Result()
	if err != nil {
		logger.Error("vector search failed", observability.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}

	logger.Debug("vector search completed",
		observability.Int("total_docs", results.Total),
		observability.Int("docs_returned", len(results.Docs)))

	return s.parseMatches(results, threshold), nil
}

// createIndex creates the Redis search index if it doesn't exist.
func (s *Store) createIndex() error {
	ctx := context.Background()

	// FT.INFO errors when the index is missing.
	if _, err := s.client.FTInfo(ctx, s.indexName).Result(); err == nil {
		return nil
	}

	_, err := s.client.FTCreate(ctx, s.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{keyPrefix},
		},
		&redis.FieldSchema{
			FieldName: "embedding",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            s.embeddingDimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{
			FieldName: "store",
			FieldType: redis.SearchFieldTypeTag,
		},
		&redis.FieldSchema{
			FieldName: "data",
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: "indexed_at",
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// parseMatches converts the raw search result, dropping hits below the
// threshold.
func (s *Store) parseMatches(result redis.FTSearchResult, threshold float64) []*domain.VectorMatch {
	var matches []*domain.VectorMatch

	for _, doc := range result.Docs {
		scoreStr, ok := doc.Fields["score"]
		if !ok {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		// Cosine distance to similarity.
		similarity := 1.0 - score
		if similarity < threshold {
			continue
		}

		dataStr, ok := doc.Fields["data"]
		if !ok {
			continue
		}

		var indexedAt time.Time
		if tsStr, tsOK := doc.Fields["indexed_at"]; tsOK {
			if ts, parseErr := strconv.ParseInt(tsStr, 10, 64); parseErr == nil {
				indexedAt = time.Unix(ts, 0)
			}
		}

		matches = append(matches, &domain.VectorMatch{
			Key:        doc.ID,
			Similarity: similarity,
			Data:       []byte(dataStr),
			IndexedAt:  indexedAt,
		})
	}

	return matches
}
