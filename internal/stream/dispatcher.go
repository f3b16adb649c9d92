package stream

import (
	"encoding/json"

	"github.com/davidbz/hearth/internal/domain"
)

// handlerFunc is the uniform shape of every family handler: one upstream
// event in, zero or more outbound events out, plus any side effect on the
// accumulator it owns.
type handlerFunc func(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent

// Dispatcher routes each upstream event, by type, to the owning family
// handler. The routing table is built once at construction; routing is
// total — unrecognized tags fall through to the structural fallback so no
// upstream signal is silently dropped.
//
// The dispatcher itself is stateless across invocations: all per-stream
// state lives in the State passed to Dispatch.
type Dispatcher struct {
	estimator domain.CostEstimator
	routes    map[domain.EventType]handlerFunc
}

// NewDispatcher creates a dispatcher with its routing table. The estimator
// is used by the lifecycle handler to enrich the terminal completed event.
func NewDispatcher(estimator domain.CostEstimator) *Dispatcher {
	d := &Dispatcher{estimator: estimator}

	d.routes = map[domain.EventType]handlerFunc{
		// Lifecycle
		domain.EventResponseCreated:    d.handleLifecycleProgress,
		domain.EventResponseQueued:     d.handleLifecycleProgress,
		domain.EventResponseInProgress: d.handleLifecycleProgress,
		domain.EventResponseIncomplete: d.handleLifecycleIncomplete,
		domain.EventResponseCompleted:  d.handleLifecycleCompleted,
		domain.EventResponseFailed:     d.handleLifecycleFailed,
		domain.EventError:              d.handleLifecycleError,

		// Text
		domain.EventOutputTextDelta:           d.handleTextDelta,
		domain.EventOutputTextDone:            d.handleTextDone,
		domain.EventOutputTextAnnotationAdded: d.handleTextAnnotation,

		// Reasoning
		domain.EventReasoningTextDelta:        d.handleReasoningDelta,
		domain.EventReasoningTextDone:         d.handleReasoningDone,
		domain.EventReasoningSummaryTextDelta: d.handleReasoningSummaryDelta,
		domain.EventReasoningSummaryTextDone:  d.handleReasoningSummaryDone,
		domain.EventReasoningSummaryPartAdded: d.handleReasoningSummaryPart,
		domain.EventReasoningSummaryPartDone:  d.handleReasoningSummaryPart,

		// Tool calling
		domain.EventFunctionCallArgumentsDelta: d.handleToolArgumentsDelta,
		domain.EventFunctionCallArgumentsDone:  d.handleToolArgumentsDone,
		domain.EventCustomToolInputDelta:       d.handleToolArgumentsDelta,
		domain.EventCustomToolInputDone:        d.handleToolArgumentsDone,

		domain.EventCodeInterpreterInProgress:   d.handleToolProgress,
		domain.EventCodeInterpreterInterpreting: d.handleToolProgress,
		domain.EventCodeInterpreterCompleted:    d.handleToolProgress,
		domain.EventCodeInterpreterCodeDelta:    d.handleToolCodeDelta,
		domain.EventCodeInterpreterCodeDone:     d.handleToolCodeDone,

		domain.EventFileSearchInProgress: d.handleToolProgress,
		domain.EventFileSearchSearching:  d.handleToolProgress,
		domain.EventFileSearchCompleted:  d.handleToolProgress,

		domain.EventWebSearchInProgress: d.handleToolProgress,
		domain.EventWebSearchSearching:  d.handleToolProgress,
		domain.EventWebSearchCompleted:  d.handleToolProgress,

		// Image generation
		domain.EventImageGenInProgress:   d.handleImageProgress,
		domain.EventImageGenGenerating:   d.handleImageProgress,
		domain.EventImageGenPartialImage: d.handleImagePartial,
		domain.EventImageGenCompleted:    d.handleImageCompleted,

		// Audio
		domain.EventAudioDelta:           d.handleAudioDelta,
		domain.EventAudioDone:            d.handleAudioDone,
		domain.EventAudioTranscriptDelta: d.handleAudioTranscriptDelta,
		domain.EventAudioTranscriptDone:  d.handleAudioTranscriptDone,

		// MCP
		domain.EventMCPCallInProgress:      d.handleMCPProgress,
		domain.EventMCPCallArgumentsDelta:  d.handleMCPArgumentsDelta,
		domain.EventMCPCallArgumentsDone:   d.handleMCPArgumentsDone,
		domain.EventMCPCallCompleted:       d.handleMCPCompleted,
		domain.EventMCPCallFailed:          d.handleMCPFailed,
		domain.EventMCPListToolsInProgress: d.handleMCPListTools,
		domain.EventMCPListToolsCompleted:  d.handleMCPListTools,
		domain.EventMCPListToolsFailed:     d.handleMCPListTools,

		// Refusal
		domain.EventRefusalDelta: d.handleRefusalDelta,
		domain.EventRefusalDone:  d.handleRefusalDone,

		// Structural
		domain.EventOutputItemAdded:  d.handleOutputItem,
		domain.EventOutputItemDone:   d.handleOutputItem,
		domain.EventContentPartAdded: d.handleContentPart,
		domain.EventContentPartDone:  d.handleContentPart,
	}

	return d
}

// Dispatch routes one upstream event to its family handler, in arrival
// order. Unknown event types go to the structural fallback.
func (d *Dispatcher) Dispatch(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	if handler, ok := d.routes[ev.Type]; ok {
		return handler(ev, st)
	}
	return d.handleUnknown(ev, st)
}

// forward builds the single outbound event most handlers produce. The
// payload is JSON-encoded into the SSE data field; the raw upstream
// sequence number carries through unchanged.
func forward(ev *domain.UpstreamEvent, name string, payload map[string]any) []domain.SSEEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return []domain.SSEEvent{{
		Event:    name,
		Data:     string(data),
		Sequence: ev.SequenceNumber,
	}}
}

// indexOrZero resolves an optional upstream index; absent means 0.
func indexOrZero(idx *int) int {
	if idx == nil {
		return 0
	}
	return *idx
}
