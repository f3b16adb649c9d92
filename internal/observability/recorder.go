package observability

import (
	"context"

	"go.uber.org/zap"
)

// InteractionRecorder persists interaction records by writing them to the
// structured log. It is fire-and-forget: recording never fails and never
// propagates anything back into the caller's control flow.
type InteractionRecorder struct {
	logger *zap.Logger
}

// NewInteractionRecorder creates a new interaction recorder (DI constructor).
func NewInteractionRecorder(logger *zap.Logger) *InteractionRecorder {
	return &InteractionRecorder{
		logger: logger,
	}
}

// LogStreamingEvent records the terminal event of one streaming invocation.
func (r *InteractionRecorder) LogStreamingEvent(ctx context.Context, record map[string]any) {
	r.emit(ctx, "streaming_event", record)
}

// LogInteraction records one completed provider interaction.
func (r *InteractionRecorder) LogInteraction(ctx context.Context, record map[string]any) {
	r.emit(ctx, "provider_interaction", record)
}

func (r *InteractionRecorder) emit(ctx context.Context, kind string, record map[string]any) {
	logger := r.logger
	if logger == nil {
		logger = FromContext(ctx)
	}

	fields := make([]zap.Field, 0, len(record)+1)
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	for k, v := range record {
		fields = append(fields, zap.Any(k, v))
	}

	logger.Info(kind, fields...)
}
