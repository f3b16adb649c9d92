package config_test

import (
	"os"
	"testing"

	"github.com/davidbz/hearth/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 300, cfg.Server.WriteTimeout)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, 120, cfg.OpenAI.Timeout)
		require.Empty(t, cfg.OpenAI.APIKey)
		require.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
		require.False(t, cfg.VectorStore.Enabled)
		require.Equal(t, "redis://localhost:6379", cfg.VectorStore.RedisURL)
		require.Equal(t, "hearth_vectors", cfg.VectorStore.IndexName)
		require.Equal(t, 1536, cfg.VectorStore.EmbeddingDimension)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("SERVER_READ_TIMEOUT", "60")
		t.Setenv("SERVER_WRITE_TIMEOUT", "60")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_BASE_URL", "https://test.openai.com")
		t.Setenv("OPENAI_TIMEOUT", "45")
		t.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")
		t.Setenv("VECTOR_STORE_ENABLED", "true")
		t.Setenv("VECTOR_INDEX_NAME", "custom_index")
		t.Setenv("VECTOR_EMBEDDING_DIM", "3072")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, 60, cfg.Server.ReadTimeout)
		require.Equal(t, 60, cfg.Server.WriteTimeout)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "https://test.openai.com", cfg.OpenAI.BaseURL)
		require.Equal(t, 45, cfg.OpenAI.Timeout)
		require.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
		require.True(t, cfg.VectorStore.Enabled)
		require.Equal(t, "custom_index", cfg.VectorStore.IndexName)
		require.Equal(t, 3072, cfg.VectorStore.EmbeddingDimension)
	})
}
