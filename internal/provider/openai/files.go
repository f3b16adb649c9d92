package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/davidbz/hearth/internal/domain"
)

const defaultFilePurpose = "assistants"

type fileListResponse struct {
	Data []domain.FileObject `json:"data"`
}

// UploadFile stores a file with the provider.
func (p *Provider) UploadFile(ctx context.Context, upload *domain.FileUpload) (*domain.FileObject, error) {
	if upload == nil {
		return nil, errors.New("upload cannot be nil")
	}

	purpose := upload.Purpose
	if purpose == "" {
		purpose = defaultFilePurpose
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", upload.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.WriteField("purpose", purpose); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/files", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var file domain.FileObject
	if err := p.doJSON(httpReq, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ListFiles lists files stored with the provider.
func (p *Provider) ListFiles(ctx context.Context) ([]domain.FileObject, error) {
	httpReq, err := p.newJSONRequest(ctx, http.MethodGet, "/files", nil)
	if err != nil {
		return nil, err
	}

	var list fileListResponse
	if err := p.doJSON(httpReq, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// DeleteFile removes a file stored with the provider.
func (p *Provider) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return errors.New("file id cannot be empty")
	}

	httpReq, err := p.newJSONRequest(ctx, http.MethodDelete, "/files/"+fileID, nil)
	if err != nil {
		return err
	}

	return p.doJSON(httpReq, nil)
}
