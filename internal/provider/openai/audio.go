package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/davidbz/hearth/internal/domain"
)

// CreateSpeech synthesizes audio from text and returns the raw bytes.
func (p *Provider) CreateSpeech(ctx context.Context, req *domain.SpeechRequest) ([]byte, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	httpReq, err := p.newJSONRequest(ctx, http.MethodPost, "/audio/speech", req)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	return audio, nil
}

// Transcribe converts audio to text via a multipart upload.
func (p *Provider) Transcribe(ctx context.Context, req *domain.TranscriptionRequest) (*domain.TranscriptionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.WriteField("model", req.Model); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if req.Language != "" {
		if err := writer.WriteField("language", req.Language); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var result domain.TranscriptionResult
	if err := p.doJSON(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
