package stream

import "github.com/davidbz/hearth/internal/domain"

func (d *Dispatcher) handleRefusalDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	st.Refusal += ev.Delta

	payload := map[string]any{"delta": ev.Delta}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "refusal.delta", payload)
}

func (d *Dispatcher) handleRefusalDone(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	refusal := ev.Refusal
	if refusal == "" {
		refusal = st.Refusal
	}

	payload := map[string]any{"refusal": refusal}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "refusal.done", payload)
}
