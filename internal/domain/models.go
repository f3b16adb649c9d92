package domain

import (
	"encoding/json"
	"time"
)

// ResponseRequest represents a request against the provider's Responses API.
// Fields the gateway does not interpret are carried through verbatim.
type ResponseRequest struct {
	Model              string            `json:"model"`
	Input              json.RawMessage   `json:"input,omitempty"` // string or structured input list
	Instructions       string            `json:"instructions,omitempty"`
	MaxOutputTokens    int               `json:"max_output_tokens,omitempty"`
	Temperature        float64           `json:"temperature,omitempty"`
	Stream             bool              `json:"stream,omitempty"`
	Tools              json.RawMessage   `json:"tools,omitempty"`
	ToolChoice         json.RawMessage   `json:"tool_choice,omitempty"`
	Reasoning          json.RawMessage   `json:"reasoning,omitempty"`
	PreviousResponseID string            `json:"previous_response_id,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// ResponseResult is the gateway's non-streaming response, enriched with
// usage and cost accounting.
type ResponseResult struct {
	ID           string         `json:"id"`
	Model        string         `json:"model"`
	Status       string         `json:"status"`
	OutputText   string         `json:"output_text"`
	Usage        *UsageSnapshot `json:"usage,omitempty"`
	CostEstimate float64        `json:"cost_estimate"`
	LatencyMs    int64          `json:"latency_ms"`
}

// SSEEvent is one normalized server-sent event handed to the caller.
// Data is a JSON-encoded payload; Sequence is the raw upstream sequence
// number (0 when the upstream omitted it, duplicates possible).
type SSEEvent struct {
	Event    string `json:"event"`
	Data     string `json:"data"`
	Sequence int    `json:"sequence"`
}

// UsageSnapshot holds normalized token counts extracted from a terminal
// response snapshot. A nil snapshot means "unknown", not zero. Cached and
// reasoning tokens are model-dependent and may be absent.
type UsageSnapshot struct {
	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`
	TotalTokens      *int `json:"total_tokens,omitempty"`
	CachedTokens     *int `json:"cached_tokens,omitempty"`
	ReasoningTokens  *int `json:"reasoning_tokens,omitempty"`
}

// ResponseMetadata holds the optional response-level fields extracted from a
// terminal snapshot. Every field may be absent; absent fields are omitted
// from serialized records rather than emitted as null.
type ResponseMetadata struct {
	Status             string             `json:"status,omitempty"`
	Error              *ResponseError     `json:"error,omitempty"`
	IncompleteDetails  *IncompleteDetails `json:"incomplete_details,omitempty"`
	ConversationID     string             `json:"conversation,omitempty"`
	Background         *bool              `json:"background,omitempty"`
	MaxOutputTokens    *int               `json:"max_output_tokens,omitempty"`
	PreviousResponseID string             `json:"previous_response_id,omitempty"`
	PromptCacheKey     string             `json:"prompt_cache_key,omitempty"`
	ServiceTier        string             `json:"service_tier,omitempty"`
	Truncation         string             `json:"truncation,omitempty"`
	SafetyIdentifier   string             `json:"safety_identifier,omitempty"`
	Metadata           map[string]string  `json:"metadata,omitempty"`
	TextVerbosity      string             `json:"text_verbosity,omitempty"`
}

// ToMap flattens the metadata into a record map, omitting absent fields.
func (m ResponseMetadata) ToMap() map[string]any {
	out := make(map[string]any)

	if m.Status != "" {
		out["response_status"] = m.Status
	}
	if m.Error != nil {
		out["error"] = m.Error
	}
	if m.IncompleteDetails != nil {
		out["incomplete_details"] = m.IncompleteDetails
	}
	if m.ConversationID != "" {
		out["conversation"] = m.ConversationID
	}
	if m.Background != nil {
		out["background"] = *m.Background
	}
	if m.MaxOutputTokens != nil {
		out["max_output_tokens"] = *m.MaxOutputTokens
	}
	if m.PreviousResponseID != "" {
		out["previous_response_id"] = m.PreviousResponseID
	}
	if m.PromptCacheKey != "" {
		out["prompt_cache_key"] = m.PromptCacheKey
	}
	if m.ServiceTier != "" {
		out["service_tier"] = m.ServiceTier
	}
	if m.Truncation != "" {
		out["truncation"] = m.Truncation
	}
	if m.SafetyIdentifier != "" {
		out["safety_identifier"] = m.SafetyIdentifier
	}
	if len(m.Metadata) > 0 {
		out["metadata"] = m.Metadata
	}
	if m.TextVerbosity != "" {
		out["text_verbosity"] = m.TextVerbosity
	}

	return out
}

// ImageRequest represents an image generation request.
type ImageRequest struct {
	Model   string `json:"model,omitempty"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// ImageDatum is one generated image.
type ImageDatum struct {
	B64JSON       string `json:"b64_json,omitempty"`
	URL           string `json:"url,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImageResult is the result of an image generation request.
type ImageResult struct {
	Created int64        `json:"created"`
	Data    []ImageDatum `json:"data"`
}

// SpeechRequest represents a text-to-speech request.
type SpeechRequest struct {
	Model  string `json:"model"`
	Input  string `json:"input"`
	Voice  string `json:"voice"`
	Format string `json:"response_format,omitempty"`
}

// TranscriptionRequest represents a speech-to-text request.
type TranscriptionRequest struct {
	Model    string `json:"model"`
	Filename string `json:"filename"`
	Audio    []byte `json:"-"`
	Language string `json:"language,omitempty"`
}

// TranscriptionResult is the result of a transcription request.
type TranscriptionResult struct {
	Text string `json:"text"`
}

// FileUpload represents a file to be stored with the provider.
type FileUpload struct {
	Filename string
	Purpose  string
	Content  []byte
}

// FileObject represents a file stored with the provider.
type FileObject struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
}

// DocumentMatch is one vector-store search hit.
type DocumentMatch struct {
	Key       string    `json:"key"`
	Store     string    `json:"store"`
	Text      string    `json:"text"`
	Score     float64   `json:"score"`
	IndexedAt time.Time `json:"indexed_at,omitempty"`
}
