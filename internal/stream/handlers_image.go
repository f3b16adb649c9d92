package stream

import "github.com/davidbz/hearth/internal/domain"

// handleImageProgress collapses in_progress/generating into one progress
// forward.
func (d *Dispatcher) handleImageProgress(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": toolStatus(ev.Type)}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "image.progress", payload)
}

// handleImagePartial forwards one partial image chunk. The upstream sends
// up to three partials per generation.
func (d *Dispatcher) handleImagePartial(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"partial_image_b64": ev.PartialImageB64}
	if ev.PartialImageIndex != nil {
		payload["partial_image_index"] = *ev.PartialImageIndex
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "image.partial", payload)
}

// handleImageCompleted forwards the final image payload.
func (d *Dispatcher) handleImageCompleted(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": "completed"}
	if len(ev.Item) > 0 {
		payload["item"] = ev.Item
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "image.completed", payload)
}
