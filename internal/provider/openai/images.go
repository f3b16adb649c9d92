package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/davidbz/hearth/internal/domain"
)

const defaultImageModel = "gpt-image-1"

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// GenerateImage executes an image generation request.
func (p *Provider) GenerateImage(ctx context.Context, req *domain.ImageRequest) (*domain.ImageResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	model := req.Model
	if model == "" {
		model = defaultImageModel
	}

	httpReq, err := p.newJSONRequest(ctx, http.MethodPost, "/images/generations", imageGenerationRequest{
		Model:   model,
		Prompt:  req.Prompt,
		N:       req.N,
		Size:    req.Size,
		Quality: req.Quality,
	})
	if err != nil {
		return nil, err
	}

	var result domain.ImageResult
	if err := p.doJSON(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
