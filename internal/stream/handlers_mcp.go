package stream

import "github.com/davidbz/hearth/internal/domain"

// MCP calls mirror the function-call shape for externally hosted tools:
// arguments accumulate per output item index in the same map.

func (d *Dispatcher) handleMCPProgress(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": "in_progress"}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "mcp.progress", payload)
}

func (d *Dispatcher) handleMCPArgumentsDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	idx := indexOrZero(ev.OutputIndex)
	st.ToolCalls[idx] += ev.Delta

	payload := map[string]any{
		"output_index": idx,
		"delta":        ev.Delta,
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "mcp.arguments.delta", payload)
}

func (d *Dispatcher) handleMCPArgumentsDone(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	idx := indexOrZero(ev.OutputIndex)

	arguments := ev.Arguments
	if arguments == "" {
		arguments = st.ToolCalls[idx]
	}

	payload := map[string]any{
		"output_index": idx,
		"arguments":    arguments,
	}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "mcp.arguments.done", payload)
}

func (d *Dispatcher) handleMCPCompleted(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": "completed"}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	return forward(ev, "mcp.completed", payload)
}

func (d *Dispatcher) handleMCPFailed(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": "failed"}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	if ev.Message != "" {
		payload["error"] = map[string]any{"code": ev.Code, "message": ev.Message}
	}
	return forward(ev, "mcp.failed", payload)
}

// handleMCPListTools collapses the in-progress/completed/failed sub-states
// of tool discovery into one forward.
func (d *Dispatcher) handleMCPListTools(ev *domain.UpstreamEvent, _ *State) []domain.SSEEvent {
	payload := map[string]any{"status": toolStatus(ev.Type)}
	if ev.ItemID != "" {
		payload["item_id"] = ev.ItemID
	}
	if len(ev.Item) > 0 {
		payload["item"] = ev.Item
	}
	return forward(ev, "mcp.list_tools", payload)
}
