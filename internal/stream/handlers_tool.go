package stream

import (
	"strings"

	"github.com/davidbz/hearth/internal/domain"
)

// toolKind derives the tool family member from the event tag.
func toolKind(t domain.EventType) string {
	s := string(t)
	switch {
	case strings.Contains(s, "function_call"):
		return "function"
	case strings.Contains(s, "code_interpreter"):
		return "code_interpreter"
	case strings.Contains(s, "file_search"):
		return "file_search"
	case strings.Contains(s, "web_search"):
		return "web_search"
	case strings.Contains(s, "custom_tool"):
		return "custom"
	default:
		return "tool"
	}
}

// toolStatus is the sub-state suffix of a progress event tag, e.g.
// "response.web_search_call.searching" -> "searching".
func toolStatus(t domain.EventType) string {
	s := string(t)
	return s[strings.LastIndex(s, ".")+1:]
}

// handleToolArgumentsDelta accumulates argument text per output item index.
// The first delta for an index creates the entry; concurrent tool calls at
// different indices accumulate independently.
func (d *Dispatcher) handleToolArgumentsDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	idx := indexOrZero(ev.OutputIndex)
	st.ToolCalls[idx] += ev.Delta

	payload := map[string]any{
		"tool":         toolKind(ev.Type),
		"output_index": idx,
		"delta":        ev.Delta,
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "tool.arguments.delta", payload)
}

// handleToolArgumentsDone finalizes one tool call and forwards the complete
// argument string. The upstream's own final string wins; the accumulator is
// the fallback when the done event arrives without one.
func (d *Dispatcher) handleToolArgumentsDone(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	idx := indexOrZero(ev.OutputIndex)

	arguments := ev.Arguments
	if arguments == "" {
		arguments = st.ToolCalls[idx]
	}

	payload := map[string]any{
		"tool":         toolKind(ev.Type),
		"output_index": idx,
		"arguments":    arguments,
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "tool.arguments.done", payload)
}

// handleToolProgress collapses the in-progress/interpreting/searching and
// completed sub-states of the built-in tools into one progress forward.
func (d *Dispatcher) handleToolProgress(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{
		"tool":   toolKind(ev.Type),
		"status": toolStatus(ev.Type),
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "tool.progress", payload)
}

// handleToolCodeDelta forwards an interpreter code fragment. Code streams
// separately from the call's completion and is not accumulated.
func (d *Dispatcher) handleToolCodeDelta(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"delta": ev.Delta}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "tool.code.delta", payload)
}

// handleToolCodeDone forwards the final interpreter source.
func (d *Dispatcher) handleToolCodeDone(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"code": ev.Code}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "tool.code.done", payload)
}
