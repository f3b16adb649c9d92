package stream_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/stream"
)

// scriptedStream replays a fixed event sequence, then its terminal error.
type scriptedStream struct {
	events   []domain.UpstreamEvent
	terminal error
	pos      int
	closed   bool
}

func (s *scriptedStream) Recv(_ context.Context) (domain.UpstreamEvent, error) {
	if s.pos >= len(s.events) {
		if s.terminal != nil {
			return domain.UpstreamEvent{}, s.terminal
		}
		return domain.UpstreamEvent{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

// captureSink records delivered events; failAt triggers a send error on the
// n-th delivery (1-based, 0 disables).
type captureSink struct {
	events []domain.SSEEvent
	failAt int
}

func (s *captureSink) Send(_ context.Context, ev domain.SSEEvent) error {
	if s.failAt > 0 && len(s.events)+1 == s.failAt {
		return errors.New("connection reset")
	}
	s.events = append(s.events, ev)
	return nil
}

// captureRecorder collects interaction records.
type captureRecorder struct {
	streamingRecords []map[string]any
	interactions     []map[string]any
}

func (r *captureRecorder) LogStreamingEvent(_ context.Context, record map[string]any) {
	r.streamingRecords = append(r.streamingRecords, record)
}

func (r *captureRecorder) LogInteraction(_ context.Context, record map[string]any) {
	r.interactions = append(r.interactions, record)
}

func newTestEngine(t *testing.T, recorder domain.InteractionLogger) *stream.Engine {
	t.Helper()

	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()
	require.NoError(t, registry.RegisterPricing(ctx, "gpt-4o", domain.ModelPricing{
		InputCostPer1K:  0.0025,
		OutputCostPer1K: 0.01,
	}))
	estimator := domain.NewStandardCostEstimator(registry, domain.ModelPricing{})

	return stream.NewEngine(estimator, recorder)
}

func TestEngine_Stream_FullScenario(t *testing.T) {
	recorder := &captureRecorder{}
	engine := newTestEngine(t, recorder)

	upstream := &scriptedStream{
		events: []domain.UpstreamEvent{
			{
				Type:           domain.EventResponseCreated,
				SequenceNumber: 1,
				Response:       &domain.ResponseSnapshot{ID: "resp_1", Model: "gpt-4o"},
			},
			{Type: domain.EventOutputTextDelta, SequenceNumber: 2, Delta: "Hello"},
			{Type: domain.EventOutputTextDelta, SequenceNumber: 3, Delta: " world"},
			{Type: domain.EventOutputTextDone, SequenceNumber: 4, Text: "Hello world"},
			{
				Type:           domain.EventResponseCompleted,
				SequenceNumber: 5,
				Response: &domain.ResponseSnapshot{
					ID:     "resp_1",
					Model:  "gpt-4o",
					Status: "completed",
					Usage: &domain.ResponseUsage{
						InputTokens:  intPtr(10),
						OutputTokens: intPtr(5),
						TotalTokens:  intPtr(15),
					},
				},
			},
		},
	}
	sink := &captureSink{}

	err := engine.Stream(context.Background(), "gpt-4o", upstream, sink)
	require.NoError(t, err)
	require.True(t, upstream.closed)

	require.Len(t, sink.events, 5)
	require.Equal(t, "created", sink.events[0].Event)
	require.Equal(t, "text.delta", sink.events[1].Event)
	require.Equal(t, "text.delta", sink.events[2].Event)
	require.Equal(t, "text.done", sink.events[3].Event)
	require.Equal(t, "completed", sink.events[4].Event)

	// Sequence numbers ride through unchanged.
	require.Equal(t, 5, sink.events[4].Sequence)

	// One terminal record on both channels.
	require.Len(t, recorder.streamingRecords, 1)
	require.Len(t, recorder.interactions, 1)

	record := recorder.interactions[0]
	require.Equal(t, "completed", record["status"])
	require.Equal(t, "Hello world", record["output_text"])
	require.Equal(t, "gpt-4o", record["model"])
	require.Equal(t, 15, record["tokens_used"])
	// (10/1000)*0.0025 + (5/1000)*0.01
	require.InDelta(t, 0.000075, record["cost_estimate"].(float64), 0.0000001)
}

func TestEngine_Stream_TransportFailureMidStream(t *testing.T) {
	recorder := &captureRecorder{}
	engine := newTestEngine(t, recorder)

	cause := errors.New("unexpected EOF")
	upstream := &scriptedStream{
		events: []domain.UpstreamEvent{
			{Type: domain.EventOutputTextDelta, SequenceNumber: 1, Delta: "par"},
			{Type: domain.EventOutputTextDelta, SequenceNumber: 2, Delta: "tial"},
		},
		terminal: cause,
	}
	sink := &captureSink{}

	err := engine.Stream(context.Background(), "gpt-4o", upstream, sink)
	require.Error(t, err)
	require.ErrorIs(t, err, cause)
	require.True(t, upstream.closed)

	// Already-streamed deltas stay valid, then one synthetic error event.
	require.Len(t, sink.events, 3)
	require.Equal(t, "text.delta", sink.events[0].Event)
	require.Equal(t, "text.delta", sink.events[1].Event)
	require.Equal(t, "error", sink.events[2].Event)
	require.Contains(t, sink.events[2].Data, "unexpected EOF")

	// The failure still produces an interaction record with the partial text.
	require.Len(t, recorder.interactions, 1)
	record := recorder.interactions[0]
	require.Equal(t, "error", record["status"])
	require.Equal(t, "partial", record["output_text"])
}

func TestEngine_Stream_SinkClosedStopsPulling(t *testing.T) {
	recorder := &captureRecorder{}
	engine := newTestEngine(t, recorder)

	upstream := &scriptedStream{
		events: []domain.UpstreamEvent{
			{Type: domain.EventOutputTextDelta, Delta: "a"},
			{Type: domain.EventOutputTextDelta, Delta: "b"},
			{Type: domain.EventOutputTextDelta, Delta: "c"},
		},
	}
	sink := &captureSink{failAt: 2}

	err := engine.Stream(context.Background(), "gpt-4o", upstream, sink)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sink closed")
	require.True(t, upstream.closed)

	// Only the first event was delivered; the third was never pulled.
	require.Len(t, sink.events, 1)
	require.Equal(t, 2, upstream.pos)

	// The abandoned stream still produces an interaction record carrying
	// whatever accumulated before the client went away.
	require.Len(t, recorder.interactions, 1)
	record := recorder.interactions[0]
	require.Equal(t, "client_disconnected", record["status"])
	require.Equal(t, "ab", record["output_text"])
	require.Contains(t, record, "latency_ms")
}

func TestEngine_Stream_EndWithoutTerminalEvent(t *testing.T) {
	recorder := &captureRecorder{}
	engine := newTestEngine(t, recorder)

	upstream := &scriptedStream{
		events: []domain.UpstreamEvent{
			{Type: domain.EventOutputTextDelta, Delta: "dangling"},
		},
	}
	sink := &captureSink{}

	err := engine.Stream(context.Background(), "gpt-4o", upstream, sink)
	require.NoError(t, err)

	require.Len(t, recorder.interactions, 1)
	record := recorder.interactions[0]
	require.Equal(t, "unknown", record["status"])
	require.Equal(t, "dangling", record["output_text"])
	require.Equal(t, "gpt-4o", record["model"])
}

func TestEngine_Stream_ConcurrentInvocationsAreIndependent(t *testing.T) {
	engine := newTestEngine(t, nil)

	makeUpstream := func(text string) *scriptedStream {
		return &scriptedStream{
			events: []domain.UpstreamEvent{
				{Type: domain.EventOutputTextDelta, Delta: text},
				{Type: domain.EventOutputTextDone, Text: text},
			},
		}
	}

	done := make(chan error, 2)
	sinkA := &captureSink{}
	sinkB := &captureSink{}

	go func() { done <- engine.Stream(context.Background(), "gpt-4o", makeUpstream("aaa"), sinkA) }()
	go func() { done <- engine.Stream(context.Background(), "gpt-4o", makeUpstream("bbb"), sinkB) }()

	require.NoError(t, <-done)
	require.NoError(t, <-done)

	require.Len(t, sinkA.events, 2)
	require.Len(t, sinkB.events, 2)
	require.Contains(t, sinkA.events[0].Data, "aaa")
	require.Contains(t, sinkB.events[0].Data, "bbb")
}
