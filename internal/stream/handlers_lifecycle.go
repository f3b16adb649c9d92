package stream

import (
	"context"
	"strings"
	"time"

	"github.com/davidbz/hearth/internal/domain"
)

// lifecycleStatus derives the short status name from the event tag, e.g.
// "response.in_progress" -> "in_progress".
func lifecycleStatus(t domain.EventType) string {
	return strings.TrimPrefix(string(t), "response.")
}

// handleLifecycleProgress forwards created/queued/in_progress transitions.
func (d *Dispatcher) handleLifecycleProgress(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	status := lifecycleStatus(ev.Type)
	payload := map[string]any{"status": status}
	if ev.Response != nil {
		if ev.Response.ID != "" {
			payload["response_id"] = ev.Response.ID
		}
		if ev.Response.Model != "" {
			payload["model"] = ev.Response.Model
		}
	}
	return forward(ev, status, payload)
}

// handleLifecycleIncomplete forwards the incomplete transition with the
// upstream's stated reason when present.
func (d *Dispatcher) handleLifecycleIncomplete(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": "incomplete"}
	if ev.Response != nil {
		if ev.Response.ID != "" {
			payload["response_id"] = ev.Response.ID
		}
		if ev.Response.IncompleteDetails != nil {
			payload["incomplete_details"] = ev.Response.IncompleteDetails
		}
	}
	return forward(ev, "incomplete", payload)
}

// handleLifecycleCompleted emits the enriched terminal event: usage and
// metadata extracted from the embedded snapshot, cost from the rate table,
// and latency against the stream's start time. The same block is kept on
// the state for the engine to hand to the interaction logger.
func (d *Dispatcher) handleLifecycleCompleted(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	snapshot := ev.Response
	usage := domain.ExtractUsage(snapshot)
	meta := domain.ExtractMetadata(snapshot)

	model := ""
	if snapshot != nil {
		model = snapshot.Model
	}

	payload := meta.ToMap()
	payload["status"] = "completed"
	payload["latency_ms"] = time.Since(st.StartTime).Milliseconds()
	payload["cost_estimate"] = d.estimate(usage, model)
	if snapshot != nil && snapshot.ID != "" {
		payload["response_id"] = snapshot.ID
	}
	if model != "" {
		payload["model"] = model
	}
	if usage != nil {
		if usage.TotalTokens != nil {
			payload["tokens_used"] = *usage.TotalTokens
		}
		if usage.CachedTokens != nil {
			payload["cached_tokens"] = *usage.CachedTokens
		}
		if usage.ReasoningTokens != nil {
			payload["reasoning_tokens"] = *usage.ReasoningTokens
		}
	}

	st.FinalRecord = payload

	return forward(ev, "completed", payload)
}

// handleLifecycleFailed forwards an upstream-declared failure as a normal
// SSE error event. The stream itself ends cleanly afterward; re-raising is
// the orchestration layer's call, not ours.
func (d *Dispatcher) handleLifecycleFailed(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	payload := map[string]any{
		"status":     "failed",
		"latency_ms": time.Since(st.StartTime).Milliseconds(),
	}
	if ev.Response != nil {
		if ev.Response.ID != "" {
			payload["response_id"] = ev.Response.ID
		}
		if ev.Response.Error != nil {
			payload["error"] = ev.Response.Error
		}
	}

	st.FinalRecord = payload

	return forward(ev, "error", payload)
}

// handleLifecycleError forwards a top-level error event emitted within an
// otherwise healthy stream. Not fatal to the dispatch loop.
func (d *Dispatcher) handleLifecycleError(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	errDetail := map[string]any{}
	if ev.Code != "" {
		errDetail["code"] = ev.Code
	}
	if ev.Message != "" {
		errDetail["message"] = ev.Message
	}
	if ev.Param != "" {
		errDetail["param"] = ev.Param
	}

	payload := map[string]any{
		"status":     "error",
		"latency_ms": time.Since(st.StartTime).Milliseconds(),
		"error":      errDetail,
	}

	st.FinalRecord = payload

	return forward(ev, "error", payload)
}

// estimate calls the rate table. Estimation is pure, so no request context
// is threaded through the handlers.
func (d *Dispatcher) estimate(usage *domain.UsageSnapshot, model string) float64 {
	if d.estimator == nil {
		return 0
	}
	return d.estimator.Estimate(context.Background(), usage, model)
}
