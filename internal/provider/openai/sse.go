package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/davidbz/hearth/internal/domain"
)

// maxSSELineBytes bounds a single SSE line; base64 image partials can run
// to several megabytes.
const maxSSELineBytes = 16 * 1024 * 1024

// eventStream decodes the provider's SSE body into upstream events, one
// Recv per event. It is pull-based on purpose: the next network read only
// happens when the dispatch loop asks for it.
type eventStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	closeOnce sync.Once
	closeErr  error
}

func newEventStream(body io.ReadCloser) *eventStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineBytes)

	return &eventStream{
		body:    body,
		scanner: scanner,
	}
}

// Recv blocks until the next upstream event is decoded. Returns io.EOF on
// normal stream exhaustion; any other error is a transport failure.
func (s *eventStream) Recv(ctx context.Context) (domain.UpstreamEvent, error) {
	if err := ctx.Err(); err != nil {
		return domain.UpstreamEvent{}, err
	}

	var data strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()

		switch {
		case line == "":
			// Blank line terminates one SSE event.
			if data.Len() == 0 {
				continue
			}
			return decodeEvent(data.String())
		case strings.HasPrefix(line, ":"):
			// Comment/heartbeat line.
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// "event:" and "id:" fields are redundant with the typed payload.
		}
	}

	if err := s.scanner.Err(); err != nil {
		return domain.UpstreamEvent{}, fmt.Errorf("stream read failed: %w", err)
	}

	// Body exhausted; a trailing event without a blank line still counts.
	if data.Len() > 0 {
		return decodeEvent(data.String())
	}

	return domain.UpstreamEvent{}, io.EOF
}

// decodeEvent parses one SSE data payload into an upstream event. The raw
// payload rides along for best-effort forwarding of unknown types; a
// payload that fails to decode is not dropped either.
func decodeEvent(data string) (domain.UpstreamEvent, error) {
	// The Responses API stream ends on a terminal lifecycle event plus body
	// close; the [DONE] sentinel belongs to the Chat Completions protocol.
	// Tolerated here so a proxy speaking the older convention still ends
	// the stream cleanly.
	if data == "[DONE]" {
		return domain.UpstreamEvent{}, io.EOF
	}

	var ev domain.UpstreamEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		ev = domain.UpstreamEvent{}
	}
	ev.Raw = json.RawMessage(data)

	return ev, nil
}

// Close releases the underlying connection. Safe to call more than once.
func (s *eventStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
