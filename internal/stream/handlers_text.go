package stream

import "github.com/davidbz/hearth/internal/domain"

// handleTextDelta appends the fragment to the assembled output text and
// forwards it.
func (d *Dispatcher) handleTextDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	st.FullText += ev.Delta

	payload := map[string]any{"delta": ev.Delta}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "text.delta", payload)
}

// handleTextDone forwards the final text. The upstream carries the complete
// string on the done event; accumulation is not consulted.
func (d *Dispatcher) handleTextDone(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"text": ev.Text}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "text.done", payload)
}

// handleTextAnnotation forwards structured citation/annotation data without
// touching the accumulated text.
func (d *Dispatcher) handleTextAnnotation(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{}
	if len(ev.Annotation) > 0 {
		payload["annotation"] = ev.Annotation
	}
	if ev.AnnotationIndex != nil {
		payload["annotation_index"] = *ev.AnnotationIndex
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "text.annotation", payload)
}
