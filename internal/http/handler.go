package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20 // 32 MiB multipart memory cap

// Handler handles HTTP requests.
type Handler struct {
	gateway *domain.GatewayService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(gateway *domain.GatewayService) *Handler {
	return &Handler{
		gateway: gateway,
	}
}

// HandleResponses processes model response requests, streaming or not.
func (h *Handler) HandleResponses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse request.
	var req domain.ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Model == "" {
		http.Error(w, "model is required", http.StatusBadRequest)
		return
	}

	// Inject model into context for downstream logging.
	ctx = observability.WithModel(ctx, req.Model)

	logger := observability.FromContext(ctx)
	logger.Info("response request received",
		zap.String("model", req.Model),
		zap.Bool("stream", req.Stream),
	)

	// Handle streaming vs non-streaming.
	if req.Stream {
		h.handleStream(ctx, w, &req)
		return
	}

	ctx = observability.WithOperation(ctx, "responses.create")

	result, err := h.gateway.Respond(ctx, &req)
	if err != nil {
		logger.Error("response request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("response succeeded",
		zap.String("response_id", result.ID),
		zap.Float64("cost_estimate", result.CostEstimate),
		zap.Int64("latency_ms", result.LatencyMs),
	)

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) handleStream(
	ctx context.Context,
	w http.ResponseWriter,
	req *domain.ResponseRequest,
) {
	ctx = observability.WithOperation(ctx, "responses.stream")
	logger := observability.FromContext(ctx)
	logger.Info("stream request started")

	sink, err := newSSEWriter(w)
	if err != nil {
		logger.Error("streaming not supported", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Lift the server write deadline: streams legitimately outlive it.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	if err := h.gateway.StreamRespond(ctx, req, sink); err != nil {
		logger.Error("stream failed", zap.Error(err))
		// Before the first event the connection is still plain HTTP;
		// afterward the engine has already emitted an error event.
		if !sink.wroteHeader {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	logger.Info("stream completed")
}

// HandleImageGeneration processes image generation requests.
func (h *Handler) HandleImageGeneration(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "images.generate")
	logger := observability.FromContext(ctx)

	var req domain.ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	result, err := h.gateway.GenerateImage(ctx, &req)
	if err != nil {
		logger.Error("image generation failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("image generation succeeded", zap.Int("images", len(result.Data)))
	writeJSON(ctx, w, http.StatusOK, result)
}

// HandleSpeech processes text-to-speech requests and returns raw audio.
func (h *Handler) HandleSpeech(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "audio.speech")
	logger := observability.FromContext(ctx)

	var req domain.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Input == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	audio, err := h.gateway.CreateSpeech(ctx, &req)
	if err != nil {
		logger.Error("speech synthesis failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("speech synthesis succeeded", zap.Int("audio_bytes", len(audio)))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// HandleTranscription processes multipart speech-to-text requests.
func (h *Handler) HandleTranscription(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "audio.transcribe")
	logger := observability.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart body: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := domain.TranscriptionRequest{
		Model:    r.FormValue("model"),
		Filename: header.Filename,
		Audio:    audio,
		Language: r.FormValue("language"),
	}
	if req.Model == "" {
		http.Error(w, "model is required", http.StatusBadRequest)
		return
	}

	result, err := h.gateway.Transcribe(ctx, &req)
	if err != nil {
		logger.Error("transcription failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("transcription succeeded", zap.Int("text_len", len(result.Text)))
	writeJSON(ctx, w, http.StatusOK, result)
}

// HandleFileUpload stores a multipart file with the provider.
func (h *Handler) HandleFileUpload(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "files.upload")
	logger := observability.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart body: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	upload := domain.FileUpload{
		Filename: header.Filename,
		Purpose:  r.FormValue("purpose"),
		Content:  content,
	}

	result, err := h.gateway.UploadFile(ctx, &upload)
	if err != nil {
		logger.Error("file upload failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("file uploaded", zap.String("file_id", result.ID))
	writeJSON(ctx, w, http.StatusOK, result)
}

// HandleFileList lists files stored with the provider.
func (h *Handler) HandleFileList(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "files.list")
	logger := observability.FromContext(ctx)

	files, err := h.gateway.ListFiles(ctx)
	if err != nil {
		logger.Error("file listing failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"data": files})
}

// HandleFileDelete removes a file stored with the provider.
func (h *Handler) HandleFileDelete(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "files.delete")
	logger := observability.FromContext(ctx)

	fileID := r.PathValue("id")
	if fileID == "" {
		http.Error(w, "file id is required", http.StatusBadRequest)
		return
	}

	if err := h.gateway.DeleteFile(ctx, fileID); err != nil {
		logger.Error("file deletion failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"id": fileID, "deleted": true})
}

type indexDocumentRequest struct {
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	TTLSeconds int               `json:"ttl_seconds,omitempty"`
}

// HandleDocumentIndex embeds and indexes a document in a named vector store.
func (h *Handler) HandleDocumentIndex(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "vector_stores.index")
	logger := observability.FromContext(ctx)

	store := r.PathValue("store")
	if store == "" {
		http.Error(w, "store is required", http.StatusBadRequest)
		return
	}

	var req indexDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	key, err := h.gateway.IndexDocument(ctx, store, req.Text, req.Metadata, ttl)
	if err != nil {
		logger.Error("document indexing failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, map[string]string{"key": key, "store": store})
}

type searchDocumentsRequest struct {
	Query     string  `json:"query"`
	Threshold float64 `json:"threshold,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// HandleDocumentSearch runs a similarity search against a named vector store.
func (h *Handler) HandleDocumentSearch(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithOperation(r.Context(), "vector_stores.search")
	logger := observability.FromContext(ctx)

	store := r.PathValue("store")
	if store == "" {
		http.Error(w, "store is required", http.StatusBadRequest)
		return
	}

	var req searchDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	matches, err := h.gateway.SearchDocuments(ctx, store, req.Query, req.Threshold, req.Limit)
	if err != nil {
		logger.Error("document search failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("document search completed",
		zap.String("store", store),
		zap.Int("matches", len(matches)),
	)
	writeJSON(ctx, w, http.StatusOK, map[string]any{"matches": matches})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Status already written, can't change it, just log.
		observability.FromContext(ctx).Error("failed to encode response",
			zap.Error(err), zap.String("status", strconv.Itoa(status)))
	}
}
