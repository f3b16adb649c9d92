package domain

import (
	"context"
	"time"
)

// EventStream is a pull-based stream of upstream events. Recv returns io.EOF
// once the upstream is exhausted; any other error is a transport failure.
type EventStream interface {
	// Recv blocks until the next upstream event is available.
	Recv(ctx context.Context) (UpstreamEvent, error)

	// Close releases the upstream connection. Safe to call more than once.
	Close() error
}

// SSESink receives normalized outbound events. Send blocks until the
// consumer is ready for the next event, which is how backpressure reaches
// the dispatch loop.
type SSESink interface {
	Send(ctx context.Context, event SSEEvent) error
}

// StreamEngine pumps one upstream event stream through the dispatcher and
// into a sink. A returned error is a transport failure (a synthetic error
// event has already been sent); lifecycle-level failures end the stream
// normally.
type StreamEngine interface {
	Stream(ctx context.Context, model string, upstream EventStream, sink SSESink) error
}

// Provider represents the upstream generative-AI provider.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// CreateResponse executes a non-streaming response request.
	CreateResponse(ctx context.Context, req *ResponseRequest) (*ResponseSnapshot, error)

	// StreamResponse opens a streaming response request. The returned stream
	// must be closed by the caller.
	StreamResponse(ctx context.Context, req *ResponseRequest) (EventStream, error)

	// GenerateImage executes an image generation request.
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResult, error)

	// CreateSpeech synthesizes audio from text and returns the raw bytes.
	CreateSpeech(ctx context.Context, req *SpeechRequest) ([]byte, error)

	// Transcribe converts audio to text.
	Transcribe(ctx context.Context, req *TranscriptionRequest) (*TranscriptionResult, error)

	// UploadFile stores a file with the provider.
	UploadFile(ctx context.Context, upload *FileUpload) (*FileObject, error)

	// ListFiles lists files stored with the provider.
	ListFiles(ctx context.Context) ([]FileObject, error)

	// DeleteFile removes a file stored with the provider.
	DeleteFile(ctx context.Context, fileID string) error
}

// CostEstimator estimates the monetary cost of one interaction. Estimation
// is deterministic and side-effect-free; nil usage estimates to 0.
type CostEstimator interface {
	Estimate(ctx context.Context, usage *UsageSnapshot, model string) float64
}

// PricingRegistry maintains per-model rate information. Rates are injectable
// configuration, not compiled-in constants.
type PricingRegistry interface {
	// GetPricing returns the rates for a model.
	GetPricing(ctx context.Context, model string) (ModelPricing, error)

	// RegisterPricing adds or replaces the rates for a model.
	RegisterPricing(ctx context.Context, model string, pricing ModelPricing) error
}

// InteractionLogger persists interaction records. Implementations are
// fire-and-forget and must not propagate failures into the caller.
type InteractionLogger interface {
	// LogStreamingEvent records the terminal event of a streaming invocation.
	LogStreamingEvent(ctx context.Context, record map[string]any)

	// LogInteraction records one completed provider interaction.
	LogInteraction(ctx context.Context, record map[string]any)
}

// EmbeddingGenerator creates vector embeddings from text.
type EmbeddingGenerator interface {
	// Generate creates a vector embedding from text.
	Generate(ctx context.Context, text string) ([]float64, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension.
	Dimension() int
}

// VectorStore performs vector index and similarity search operations.
type VectorStore interface {
	// Index stores a vector with associated data under the given store name.
	Index(ctx context.Context, store, key string, embedding []float64, data []byte, ttl time.Duration) error

	// Search finds vectors in the store with similarity above the threshold.
	Search(ctx context.Context, store string, embedding []float64, threshold float64, limit int) ([]*VectorMatch, error)
}

// VectorMatch is a raw vector search result.
type VectorMatch struct {
	Key        string
	Similarity float64
	Data       []byte
	IndexedAt  time.Time
}
