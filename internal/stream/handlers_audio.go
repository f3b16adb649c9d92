package stream

import "github.com/davidbz/hearth/internal/domain"

// Raw audio bytes (base64 chunks) and the transcript are independent
// delta/done pairs with independent accumulators.

func (d *Dispatcher) handleAudioDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	st.Audio += ev.Delta

	return forward(ev, "audio.delta", map[string]any{"delta": ev.Delta})
}

func (d *Dispatcher) handleAudioDone(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	return forward(ev, "audio.done", map[string]any{
		"status":     "done",
		"audio_size": len(st.Audio),
	})
}

func (d *Dispatcher) handleAudioTranscriptDelta(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	st.AudioTranscript += ev.Delta

	return forward(ev, "audio_transcript.delta", map[string]any{"delta": ev.Delta})
}

func (d *Dispatcher) handleAudioTranscriptDone(ev *domain.UpstreamEvent, st *State) []domain.SSEEvent {
	transcript := ev.Text
	if transcript == "" {
		transcript = st.AudioTranscript
	}
	return forward(ev, "audio_transcript.done", map[string]any{"text": transcript})
}
