package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
)

// Engine is the orchestration wrapper around the dispatcher: it owns the
// accumulator for one invocation, pumps upstream events through dispatch in
// arrival order, and pushes the outbound events into the caller's sink.
//
// The engine holds no per-stream state of its own, so one instance serves
// any number of concurrent invocations.
type Engine struct {
	dispatcher   *Dispatcher
	interactions domain.InteractionLogger
}

// NewEngine creates the streaming engine (DI constructor).
func NewEngine(estimator domain.CostEstimator, interactions domain.InteractionLogger) *Engine {
	return &Engine{
		dispatcher:   NewDispatcher(estimator),
		interactions: interactions,
	}
}

// Stream consumes the upstream until exhaustion or transport failure.
//
// Sink sends block until the consumer is ready, so the loop never reads the
// next upstream event before the current batch has been delivered — the
// consumer's pace is the stream's pace. A transport error from Recv emits
// one synthetic error event and is then returned to the caller; lifecycle
// failures reported within the stream end it normally.
func (e *Engine) Stream(
	ctx context.Context,
	model string,
	upstream domain.EventStream,
	sink domain.SSESink,
) error {
	st := NewState()
	defer func() {
		_ = upstream.Close()
	}()

	logger := observability.FromContext(ctx)
	logger.Debug("stream opened", observability.String("model", model))

	for {
		ev, err := upstream.Recv(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return e.failStream(ctx, model, st, sink, err)
		}

		for _, out := range e.dispatcher.Dispatch(&ev, st) {
			if sendErr := sink.Send(ctx, out); sendErr != nil {
				// Consumer gone; stop pulling from upstream promptly. The
				// abandoned stream still gets a terminal record.
				if st.FinalRecord == nil {
					st.FinalRecord = map[string]any{
						"status":     "client_disconnected",
						"latency_ms": time.Since(st.StartTime).Milliseconds(),
					}
				}
				e.recordInteraction(ctx, model, st)
				return fmt.Errorf("sink closed: %w", sendErr)
			}
		}
	}

	logger.Debug("stream completed",
		observability.Int("text_len", len(st.FullText)),
		observability.Int("tool_calls", len(st.ToolCalls)))

	e.recordInteraction(ctx, model, st)
	return nil
}

// failStream handles a transport-level failure: one synthetic error event
// to the caller (best effort — already-streamed events stay valid), a
// failure record, then the original error back up for status mapping.
func (e *Engine) failStream(
	ctx context.Context,
	model string,
	st *State,
	sink domain.SSESink,
	cause error,
) error {
	latencyMs := time.Since(st.StartTime).Milliseconds()

	payload := map[string]any{
		"status":     "error",
		"latency_ms": latencyMs,
		"error":      map[string]any{"message": cause.Error()},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"status":"error"}`)
	}

	_ = sink.Send(ctx, domain.SSEEvent{Event: "error", Data: string(data)})

	st.FinalRecord = payload
	e.recordInteraction(ctx, model, st)

	observability.FromContext(ctx).Error("stream transport failure",
		observability.Error(cause),
		observability.Int64("latency_ms", latencyMs))

	return fmt.Errorf("upstream stream failed: %w", cause)
}

// recordInteraction hands the terminal block to the interaction logger.
// Logging is fire-and-forget; nothing here can fail the stream.
func (e *Engine) recordInteraction(ctx context.Context, model string, st *State) {
	if e.interactions == nil {
		return
	}

	record := st.FinalRecord
	if record == nil {
		// Stream ended without a terminal lifecycle event.
		record = map[string]any{
			"status":     "unknown",
			"latency_ms": time.Since(st.StartTime).Milliseconds(),
		}
	}
	if _, ok := record["model"]; !ok && model != "" {
		record["model"] = model
	}
	record["output_text"] = st.FullText
	if st.Reasoning != "" {
		record["reasoning_len"] = len(st.Reasoning)
	}
	if st.Refusal != "" {
		record["refusal"] = st.Refusal
	}
	if len(st.ToolCalls) > 0 {
		record["tool_call_count"] = len(st.ToolCalls)
	}

	e.interactions.LogStreamingEvent(ctx, record)
	e.interactions.LogInteraction(ctx, record)
}
