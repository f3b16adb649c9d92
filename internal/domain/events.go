package domain

import "encoding/json"

// EventType is the tag of one upstream streaming event, as assigned by the
// provider's Responses API.
type EventType string

// Lifecycle events signal the overall state of the response object.
const (
	EventResponseCreated    EventType = "response.created"
	EventResponseQueued     EventType = "response.queued"
	EventResponseInProgress EventType = "response.in_progress"
	EventResponseIncomplete EventType = "response.incomplete"
	EventResponseCompleted  EventType = "response.completed"
	EventResponseFailed     EventType = "response.failed"
	EventError              EventType = "error"
)

// Text output events.
const (
	EventOutputTextDelta           EventType = "response.output_text.delta"
	EventOutputTextDone            EventType = "response.output_text.done"
	EventOutputTextAnnotationAdded EventType = "response.output_text.annotation.added"
)

// Reasoning events. Raw reasoning text and the reasoning summary stream as
// separate channels.
const (
	EventReasoningTextDelta        EventType = "response.reasoning_text.delta"
	EventReasoningTextDone         EventType = "response.reasoning_text.done"
	EventReasoningSummaryTextDelta EventType = "response.reasoning_summary_text.delta"
	EventReasoningSummaryTextDone  EventType = "response.reasoning_summary_text.done"
	EventReasoningSummaryPartAdded EventType = "response.reasoning_summary_part.added"
	EventReasoningSummaryPartDone  EventType = "response.reasoning_summary_part.done"
)

// Tool-calling events: native function calls, code interpreter, file search,
// web search and custom tools.
const (
	EventFunctionCallArgumentsDelta EventType = "response.function_call_arguments.delta"
	EventFunctionCallArgumentsDone  EventType = "response.function_call_arguments.done"

	EventCodeInterpreterInProgress   EventType = "response.code_interpreter_call.in_progress"
	EventCodeInterpreterInterpreting EventType = "response.code_interpreter_call.interpreting"
	EventCodeInterpreterCompleted    EventType = "response.code_interpreter_call.completed"
	EventCodeInterpreterCodeDelta    EventType = "response.code_interpreter_call_code.delta"
	EventCodeInterpreterCodeDone     EventType = "response.code_interpreter_call_code.done"

	EventFileSearchInProgress EventType = "response.file_search_call.in_progress"
	EventFileSearchSearching  EventType = "response.file_search_call.searching"
	EventFileSearchCompleted  EventType = "response.file_search_call.completed"

	EventWebSearchInProgress EventType = "response.web_search_call.in_progress"
	EventWebSearchSearching  EventType = "response.web_search_call.searching"
	EventWebSearchCompleted  EventType = "response.web_search_call.completed"

	EventCustomToolInputDelta EventType = "response.custom_tool_call_input.delta"
	EventCustomToolInputDone  EventType = "response.custom_tool_call_input.done"
)

// Image generation events. Up to three partial images may arrive before the
// completed event.
const (
	EventImageGenInProgress   EventType = "response.image_generation_call.in_progress"
	EventImageGenGenerating   EventType = "response.image_generation_call.generating"
	EventImageGenPartialImage EventType = "response.image_generation_call.partial_image"
	EventImageGenCompleted    EventType = "response.image_generation_call.completed"
)

// Audio events. Raw audio bytes and the transcript stream as separate
// channels.
const (
	EventAudioDelta           EventType = "response.audio.delta"
	EventAudioDone            EventType = "response.audio.done"
	EventAudioTranscriptDelta EventType = "response.audio.transcript.delta"
	EventAudioTranscriptDone  EventType = "response.audio.transcript.done"
)

// MCP events surface externally hosted tool calls, structurally parallel to
// native function calls.
const (
	EventMCPCallInProgress      EventType = "response.mcp_call.in_progress"
	EventMCPCallArgumentsDelta  EventType = "response.mcp_call_arguments.delta"
	EventMCPCallArgumentsDone   EventType = "response.mcp_call_arguments.done"
	EventMCPCallCompleted       EventType = "response.mcp_call.completed"
	EventMCPCallFailed          EventType = "response.mcp_call.failed"
	EventMCPListToolsInProgress EventType = "response.mcp_list_tools.in_progress"
	EventMCPListToolsCompleted  EventType = "response.mcp_list_tools.completed"
	EventMCPListToolsFailed     EventType = "response.mcp_list_tools.failed"
)

// Refusal events.
const (
	EventRefusalDelta EventType = "response.refusal.delta"
	EventRefusalDone  EventType = "response.refusal.done"
)

// Structural events mark boundaries in the response's nested output
// structure.
const (
	EventOutputItemAdded  EventType = "response.output_item.added"
	EventOutputItemDone   EventType = "response.output_item.done"
	EventContentPartAdded EventType = "response.content_part.added"
	EventContentPartDone  EventType = "response.content_part.done"
)

// UpstreamEvent is one message of the provider's streaming protocol,
// flattened: only the fields relevant to the event's type are populated.
// SequenceNumber is assigned by the upstream; a missing value decodes to 0.
type UpstreamEvent struct {
	Type           EventType `json:"type"`
	SequenceNumber int       `json:"sequence_number"`

	// Response snapshot, present on lifecycle events.
	Response *ResponseSnapshot `json:"response,omitempty"`

	// Position of the event within the response's output structure.
	ItemID          string `json:"item_id,omitempty"`
	OutputIndex     *int   `json:"output_index,omitempty"`
	ContentIndex    *int   `json:"content_index,omitempty"`
	SummaryIndex    *int   `json:"summary_index,omitempty"`
	AnnotationIndex *int   `json:"annotation_index,omitempty"`

	// Incremental and final payloads.
	Delta      string          `json:"delta,omitempty"`
	Text       string          `json:"text,omitempty"`
	Arguments  string          `json:"arguments,omitempty"`
	Refusal    string          `json:"refusal,omitempty"`
	Item       json.RawMessage `json:"item,omitempty"`
	Part       json.RawMessage `json:"part,omitempty"`
	Annotation json.RawMessage `json:"annotation,omitempty"`

	// Image generation payloads.
	PartialImageB64   string `json:"partial_image_b64,omitempty"`
	PartialImageIndex *int   `json:"partial_image_index,omitempty"`

	// Code carries the final interpreter source on code-done events and the
	// error code on top-level error events; the wire field name is shared.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`

	// Raw is the undecoded event payload, kept for best-effort forwarding of
	// unrecognized event types.
	Raw json.RawMessage `json:"-"`
}

// ResponseError is the error detail embedded in failed response snapshots.
type ResponseError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// IncompleteDetails explains why a response stopped early.
type IncompleteDetails struct {
	Reason string `json:"reason,omitempty"`
}

// ConversationRef links a response to its conversation.
type ConversationRef struct {
	ID string `json:"id,omitempty"`
}

// TextFormat carries response-level text options.
type TextFormat struct {
	Verbosity string `json:"verbosity,omitempty"`
}

// ContentPart is one part of an output item's content.
type ContentPart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// OutputItem is one item of a response's output list.
type OutputItem struct {
	ID      string        `json:"id,omitempty"`
	Type    string        `json:"type,omitempty"`
	Status  string        `json:"status,omitempty"`
	Role    string        `json:"role,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}

// InputTokensDetails breaks down input token usage.
type InputTokensDetails struct {
	CachedTokens *int `json:"cached_tokens,omitempty"`
}

// OutputTokensDetails breaks down output token usage.
type OutputTokensDetails struct {
	ReasoningTokens *int `json:"reasoning_tokens,omitempty"`
}

// ResponseUsage is the raw usage object of a response snapshot. Both the
// current (input/output) and legacy (prompt/completion) field namings occur
// in the wild; extraction normalizes them.
type ResponseUsage struct {
	InputTokens         *int                 `json:"input_tokens,omitempty"`
	OutputTokens        *int                 `json:"output_tokens,omitempty"`
	TotalTokens         *int                 `json:"total_tokens,omitempty"`
	PromptTokens        *int                 `json:"prompt_tokens,omitempty"`
	CompletionTokens    *int                 `json:"completion_tokens,omitempty"`
	InputTokensDetails  *InputTokensDetails  `json:"input_tokens_details,omitempty"`
	OutputTokensDetails *OutputTokensDetails `json:"output_tokens_details,omitempty"`
}

// ResponseSnapshot is the provider's response object as embedded in
// lifecycle events and returned by non-streaming calls. Every field beyond
// the identifiers is optional; presence depends on what the upstream
// populated.
type ResponseSnapshot struct {
	ID                 string             `json:"id,omitempty"`
	Object             string             `json:"object,omitempty"`
	Model              string             `json:"model,omitempty"`
	Status             string             `json:"status,omitempty"`
	Error              *ResponseError     `json:"error,omitempty"`
	IncompleteDetails  *IncompleteDetails `json:"incomplete_details,omitempty"`
	Output             []OutputItem       `json:"output,omitempty"`
	Usage              *ResponseUsage     `json:"usage,omitempty"`
	Conversation       *ConversationRef   `json:"conversation,omitempty"`
	Background         *bool              `json:"background,omitempty"`
	MaxOutputTokens    *int               `json:"max_output_tokens,omitempty"`
	PreviousResponseID string             `json:"previous_response_id,omitempty"`
	PromptCacheKey     string             `json:"prompt_cache_key,omitempty"`
	ServiceTier        string             `json:"service_tier,omitempty"`
	Truncation         string             `json:"truncation,omitempty"`
	SafetyIdentifier   string             `json:"safety_identifier,omitempty"`
	Metadata           map[string]string  `json:"metadata,omitempty"`
	Text               *TextFormat        `json:"text,omitempty"`
}

// OutputText concatenates the text parts of all message output items.
func (s *ResponseSnapshot) OutputText() string {
	if s == nil {
		return ""
	}

	var text string
	for _, item := range s.Output {
		if item.Type != "" && item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "" || part.Type == "output_text" {
				text += part.Text
			}
		}
	}
	return text
}
