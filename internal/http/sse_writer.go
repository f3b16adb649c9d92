package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/davidbz/hearth/internal/domain"
)

// sseWriter implements domain.SSESink over an http.ResponseWriter. Headers
// are written lazily on the first event so a stream that fails before
// producing anything can still get a plain HTTP error status.
//
// Send blocks on the underlying connection write; a slow client slows the
// whole pipeline down instead of growing a buffer.
type sseWriter struct {
	w           http.ResponseWriter
	flusher     http.Flusher
	wroteHeader bool
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported by response writer")
	}
	return &sseWriter{w: w, flusher: flusher}, nil
}

// Send writes one event in SSE wire format and flushes it to the client.
func (s *sseWriter) Send(ctx context.Context, ev domain.SSEEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stream context done: %w", err)
	}

	if !s.wroteHeader {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.wroteHeader = true
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\nid: %d\ndata: %s\n\n", ev.Event, ev.Sequence, ev.Data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()

	return nil
}
