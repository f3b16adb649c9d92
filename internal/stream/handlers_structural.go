package stream

import (
	"encoding/json"

	"github.com/davidbz/hearth/internal/domain"
)

// Structural events mark boundaries in the response's nested output
// structure. They forward as-is with no accumulation. This family also
// owns the unknown-event fallback.

func (d *Dispatcher) handleOutputItem(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	name := "output_item.added"
	if ev.Type == domain.EventOutputItemDone {
		name = "output_item.done"
	}

	payload := map[string]any{"output_index": indexOrZero(ev.OutputIndex)}
	if len(ev.Item) > 0 {
		payload["item"] = ev.Item
	}
	return forward(ev, name, payload)
}

func (d *Dispatcher) handleContentPart(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	name := "content_part.added"
	if ev.Type == domain.EventContentPartDone {
		name = "content_part.done"
	}

	payload := map[string]any{"content_index": indexOrZero(ev.ContentIndex)}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	if len(ev.Part) > 0 {
		payload["part"] = ev.Part
	}
	return forward(ev, name, payload)
}

// handleUnknown forwards a best-effort event for unrecognized tags so no
// upstream signal is silently dropped.
func (d *Dispatcher) handleUnknown(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"type": string(ev.Type)}
	if len(ev.Raw) > 0 {
		// The raw payload may not be valid JSON (the decoder forwards
		// undecodable payloads as-is). String-encode it then, so the whole
		// payload still marshals.
		if json.Valid(ev.Raw) {
			payload["raw"] = ev.Raw
		} else {
			payload["raw"] = string(ev.Raw)
		}
	}
	return forward(ev, "unknown", payload)
}
