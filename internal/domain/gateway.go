package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/hearth/internal/observability"
)

const defaultSearchLimit = 5

// GatewayService orchestrates requests to the provider and its supporting
// stores.
type GatewayService struct {
	provider     Provider
	estimator    CostEstimator
	engine       StreamEngine
	interactions InteractionLogger
	embeddings   EmbeddingGenerator
	vectors      VectorStore
}

// NewGatewayService creates a new gateway service (DI constructor).
func NewGatewayService(
	provider Provider,
	estimator CostEstimator,
	engine StreamEngine,
	interactions InteractionLogger,
	embeddings EmbeddingGenerator,
	vectors VectorStore,
) *GatewayService {
	return &GatewayService{
		provider:     provider,
		estimator:    estimator,
		engine:       engine,
		interactions: interactions,
		embeddings:   embeddings,
		vectors:      vectors,
	}
}

// Respond handles a non-streaming response request, enriching the result
// with usage and cost accounting.
func (g *GatewayService) Respond(ctx context.Context, req *ResponseRequest) (*ResponseResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	start := time.Now()

	snapshot, err := g.provider.CreateResponse(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("response request failed: %w", err)
	}

	usage := ExtractUsage(snapshot)
	cost := g.estimator.Estimate(ctx, usage, snapshot.Model)
	latency := time.Since(start)

	result := &ResponseResult{
		ID:           snapshot.ID,
		Model:        snapshot.Model,
		Status:       snapshot.Status,
		OutputText:   snapshot.OutputText(),
		Usage:        usage,
		CostEstimate: cost,
		LatencyMs:    latency.Milliseconds(),
	}

	if g.interactions != nil {
		record := ExtractMetadata(snapshot).ToMap()
		record["latency_ms"] = latency.Milliseconds()
		record["cost_estimate"] = cost
		record["model"] = snapshot.Model
		if usage != nil && usage.TotalTokens != nil {
			record["tokens_used"] = *usage.TotalTokens
		}
		g.interactions.LogInteraction(ctx, record)
	}

	return result, nil
}

// StreamRespond handles a streaming response request, pumping the upstream
// event stream through the engine into the caller's sink. The error return
// follows the engine's contract: transport failures surface here after a
// synthetic error event has been sent.
func (g *GatewayService) StreamRespond(ctx context.Context, req *ResponseRequest, sink SSESink) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}
	if req.Model == "" {
		return errors.New("model cannot be empty")
	}
	if sink == nil {
		return errors.New("sink cannot be nil")
	}

	upstream, err := g.provider.StreamResponse(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to open response stream: %w", err)
	}

	return g.engine.Stream(ctx, req.Model, upstream, sink)
}

// GenerateImage handles an image generation request.
func (g *GatewayService) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	result, err := g.provider.GenerateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	return result, nil
}

// CreateSpeech handles a text-to-speech request and returns raw audio bytes.
func (g *GatewayService) CreateSpeech(ctx context.Context, req *SpeechRequest) ([]byte, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Input == "" {
		return nil, errors.New("input cannot be empty")
	}

	audio, err := g.provider.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return audio, nil
}

// Transcribe handles a speech-to-text request.
func (g *GatewayService) Transcribe(ctx context.Context, req *TranscriptionRequest) (*TranscriptionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(req.Audio) == 0 {
		return nil, errors.New("audio cannot be empty")
	}

	result, err := g.provider.Transcribe(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	return result, nil
}

// UploadFile stores a file with the provider.
func (g *GatewayService) UploadFile(ctx context.Context, upload *FileUpload) (*FileObject, error) {
	if upload == nil {
		return nil, errors.New("upload cannot be nil")
	}
	if len(upload.Content) == 0 {
		return nil, errors.New("file content cannot be empty")
	}

	file, err := g.provider.UploadFile(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}
	return file, nil
}

// ListFiles lists files stored with the provider.
func (g *GatewayService) ListFiles(ctx context.Context) ([]FileObject, error) {
	files, err := g.provider.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("file listing failed: %w", err)
	}
	return files, nil
}

// DeleteFile removes a file stored with the provider.
func (g *GatewayService) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return errors.New("file id cannot be empty")
	}

	if err := g.provider.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("file deletion failed: %w", err)
	}
	return nil
}

// storedDocument is the payload persisted alongside each indexed vector.
type storedDocument struct {
	Store    string            `json:"store"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IndexDocument embeds a document and stores it in the named vector store.
// Returns the generated document key.
func (g *GatewayService) IndexDocument(
	ctx context.Context,
	store, text string,
	metadata map[string]string,
	ttl time.Duration,
) (string, error) {
	if g.vectors == nil || g.embeddings == nil {
		return "", errors.New("vector store is not configured")
	}
	if store == "" {
		return "", errors.New("store cannot be empty")
	}
	if text == "" {
		return "", errors.New("text cannot be empty")
	}

	embedding, err := g.embeddings.Generate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("failed to generate embedding: %w", err)
	}

	data, err := json.Marshal(storedDocument{Store: store, Text: text, Metadata: metadata})
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	key := uuid.New().String()
	if err := g.vectors.Index(ctx, store, key, embedding, data, ttl); err != nil {
		return "", fmt.Errorf("failed to index document: %w", err)
	}

	observability.FromContext(ctx).Info("document indexed",
		observability.String("store", store),
		observability.String("key", key),
		observability.Int("embedding_dim", len(embedding)))

	return key, nil
}

// SearchDocuments embeds the query and runs a similarity search against the
// named vector store.
func (g *GatewayService) SearchDocuments(
	ctx context.Context,
	store, query string,
	threshold float64,
	limit int,
) ([]*DocumentMatch, error) {
	if g.vectors == nil || g.embeddings == nil {
		return nil, errors.New("vector store is not configured")
	}
	if store == "" {
		return nil, errors.New("store cannot be empty")
	}
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	embedding, err := g.embeddings.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	hits, err := g.vectors.Search(ctx, store, embedding, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	matches := make([]*DocumentMatch, 0, len(hits))
	for _, hit := range hits {
		var doc storedDocument
		if err := json.Unmarshal(hit.Data, &doc); err != nil {
			continue
		}
		matches = append(matches, &DocumentMatch{
			Key:       hit.Key,
			Store:     doc.Store,
			Text:      doc.Text,
			Score:     hit.Similarity,
			IndexedAt: hit.IndexedAt,
		})
	}

	return matches, nil
}
