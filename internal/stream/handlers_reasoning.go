package stream

import "github.com/davidbz/hearth/internal/domain"

// Raw reasoning text and the reasoning summary are independent channels
// with independent accumulators.

func (d *Dispatcher) handleReasoningDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	st.Reasoning += ev.Delta

	payload := map[string]any{"delta": ev.Delta}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "reasoning.delta", payload)
}

func (d *Dispatcher) handleReasoningDone(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"text": ev.Text}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "reasoning.done", payload)
}

func (d *Dispatcher) handleReasoningSummaryDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	st.ReasoningSummary += ev.Delta

	payload := map[string]any{"delta": ev.Delta}
	if ev.SummaryIndex != nil {
		payload["summary_index"] = *ev.SummaryIndex
	}
	return forward(ev, "reasoning_summary.delta", payload)
}

func (d *Dispatcher) handleReasoningSummaryDone(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"text": ev.Text}
	if ev.SummaryIndex != nil {
		payload["summary_index"] = *ev.SummaryIndex
	}
	return forward(ev, "reasoning_summary.done", payload)
}

// handleReasoningSummaryPart covers both part-added and part-done: both
// just mark a structural boundary within the summary.
func (d *Dispatcher) handleReasoningSummaryPart(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{}
	if len(ev.Part) > 0 {
		payload["part"] = ev.Part
	}
	if ev.SummaryIndex != nil {
		payload["summary_index"] = *ev.SummaryIndex
	}
	if len(payload) == 0 {
		payload["boundary"] = lifecycleStatus(ev.Type)
	}
	return forward(ev, "reasoning_summary.part", payload)
}
