package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/hearth/internal/domain"
)

func TestExtractUsage(t *testing.T) {
	t.Run("nil snapshot returns nil", func(t *testing.T) {
		require.Nil(t, domain.ExtractUsage(nil))
	})

	t.Run("snapshot without usage returns nil", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{ID: "resp_1", Status: "completed"}
		require.Nil(t, domain.ExtractUsage(snapshot))
	})

	t.Run("current field naming maps through", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{
			Usage: &domain.ResponseUsage{
				InputTokens:  intPtr(100),
				OutputTokens: intPtr(50),
				TotalTokens:  intPtr(150),
			},
		}

		usage := domain.ExtractUsage(snapshot)
		require.NotNil(t, usage)
		require.Equal(t, 100, *usage.PromptTokens)
		require.Equal(t, 50, *usage.CompletionTokens)
		require.Equal(t, 150, *usage.TotalTokens)
		require.Nil(t, usage.CachedTokens)
		require.Nil(t, usage.ReasoningTokens)
	})

	t.Run("legacy field naming is normalized", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{
			Usage: &domain.ResponseUsage{
				PromptTokens:     intPtr(80),
				CompletionTokens: intPtr(20),
				TotalTokens:      intPtr(100),
			},
		}

		usage := domain.ExtractUsage(snapshot)
		require.NotNil(t, usage)
		require.Equal(t, 80, *usage.PromptTokens)
		require.Equal(t, 20, *usage.CompletionTokens)
	})

	t.Run("current naming wins over legacy", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{
			Usage: &domain.ResponseUsage{
				InputTokens:  intPtr(100),
				PromptTokens: intPtr(999),
			},
		}

		usage := domain.ExtractUsage(snapshot)
		require.NotNil(t, usage)
		require.Equal(t, 100, *usage.PromptTokens)
	})

	t.Run("cached and reasoning details map through", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{
			Usage: &domain.ResponseUsage{
				InputTokens:  intPtr(100),
				OutputTokens: intPtr(60),
				TotalTokens:  intPtr(160),
				InputTokensDetails: &domain.InputTokensDetails{
					CachedTokens: intPtr(40),
				},
				OutputTokensDetails: &domain.OutputTokensDetails{
					ReasoningTokens: intPtr(10),
				},
			},
		}

		usage := domain.ExtractUsage(snapshot)
		require.NotNil(t, usage)
		require.Equal(t, 40, *usage.CachedTokens)
		require.Equal(t, 10, *usage.ReasoningTokens)
	})
}

func TestExtractMetadata(t *testing.T) {
	t.Run("nil snapshot yields empty metadata", func(t *testing.T) {
		meta := domain.ExtractMetadata(nil)
		require.Empty(t, meta.ToMap())
	})

	t.Run("absent fields stay absent in the record", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{Status: "completed"}

		record := domain.ExtractMetadata(snapshot).ToMap()
		require.Equal(t, map[string]any{"response_status": "completed"}, record)
	})

	t.Run("populated fields map through", func(t *testing.T) {
		background := true
		snapshot := &domain.ResponseSnapshot{
			Status:             "incomplete",
			IncompleteDetails:  &domain.IncompleteDetails{Reason: "max_output_tokens"},
			Conversation:       &domain.ConversationRef{ID: "conv_1"},
			Background:         &background,
			MaxOutputTokens:    intPtr(2048),
			PreviousResponseID: "resp_0",
			ServiceTier:        "default",
			Truncation:         "disabled",
			Metadata:           map[string]string{"tenant": "acme"},
			Text:               &domain.TextFormat{Verbosity: "low"},
		}

		record := domain.ExtractMetadata(snapshot).ToMap()
		require.Equal(t, "incomplete", record["response_status"])
		require.Equal(t, "conv_1", record["conversation"])
		require.Equal(t, true, record["background"])
		require.Equal(t, 2048, record["max_output_tokens"])
		require.Equal(t, "resp_0", record["previous_response_id"])
		require.Equal(t, "default", record["service_tier"])
		require.Equal(t, "disabled", record["truncation"])
		require.Equal(t, "low", record["text_verbosity"])
		require.Equal(t, map[string]string{"tenant": "acme"}, record["metadata"])

		details, ok := record["incomplete_details"].(*domain.IncompleteDetails)
		require.True(t, ok)
		require.Equal(t, "max_output_tokens", details.Reason)
	})
}

func TestResponseSnapshot_OutputText(t *testing.T) {
	t.Run("concatenates message text parts", func(t *testing.T) {
		snapshot := &domain.ResponseSnapshot{
			Output: []domain.OutputItem{
				{
					Type: "message",
					Content: []domain.ContentPart{
						{Type: "output_text", Text: "Hello, "},
						{Type: "output_text", Text: "world"},
					},
				},
				{
					Type: "function_call",
				},
				{
					Type: "message",
					Content: []domain.ContentPart{
						{Type: "refusal", Text: "nope"},
						{Type: "output_text", Text: "!"},
					},
				},
			},
		}

		require.Equal(t, "Hello, world!", snapshot.OutputText())
	})

	t.Run("nil snapshot yields empty string", func(t *testing.T) {
		var snapshot *domain.ResponseSnapshot
		require.Empty(t, snapshot.OutputText())
	})
}
