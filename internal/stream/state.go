// Package stream implements the streaming response event engine: the
// dispatch of upstream provider events to family handlers, per-stream
// accumulation, and the normalized server-sent-event sequence emitted to
// the caller.
package stream

import "time"

// State is the per-invocation accumulator. One instance exists per
// streaming call, owned exclusively by the dispatch loop that created it.
// Fields are append-only for the lifetime of the stream; nothing is
// truncated or reset once written.
type State struct {
	// FullText is the assembled output text, appended by text delta events.
	FullText string

	// Reasoning and ReasoningSummary accumulate the two reasoning channels
	// independently.
	Reasoning        string
	ReasoningSummary string

	// Refusal accumulates refusal text.
	Refusal string

	// ToolCalls maps an upstream output item index to the accumulated
	// argument text of the tool call streaming at that index. Entries are
	// created on first delta and never removed during the stream.
	ToolCalls map[int]string

	// Audio and AudioTranscript accumulate base64 audio chunks and
	// transcript text independently.
	Audio           string
	AudioTranscript string

	// StartTime is set once when the stream opens; latency at terminal
	// events is computed against it.
	StartTime time.Time

	// FinalRecord holds the enriched metadata block built by the lifecycle
	// completed/failed handler, for the engine to hand to the interaction
	// logger after the stream ends.
	FinalRecord map[string]any
}

// NewState creates the accumulator for one streaming invocation.
func NewState() *State {
	return &State{
		ToolCalls: make(map[int]string),
		StartTime: time.Now(),
	}
}
