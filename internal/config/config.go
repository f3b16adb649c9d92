package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	embeddingopenai "github.com/davidbz/hearth/internal/embedding/openai"
	"github.com/davidbz/hearth/internal/provider/openai"
)

// Config represents the gateway configuration.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	OpenAI      openai.Config
	Embedding   embeddingopenai.Config
	VectorStore VectorStoreConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int `env:"SERVER_PORT"         envDefault:"8080"`
	ReadTimeout int `env:"SERVER_READ_TIMEOUT" envDefault:"30"`
	// WriteTimeout bounds non-streaming responses. Streaming endpoints
	// disable the per-response deadline instead of inheriting it.
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"300"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// VectorStoreConfig contains Redis vector index settings.
type VectorStoreConfig struct {
	Enabled            bool   `env:"VECTOR_STORE_ENABLED"  envDefault:"false"`
	RedisURL           string `env:"REDIS_URL"             envDefault:"redis://localhost:6379"`
	IndexName          string `env:"VECTOR_INDEX_NAME"     envDefault:"hearth_vectors"`
	EmbeddingDimension int    `env:"VECTOR_EMBEDDING_DIM"  envDefault:"1536"`
	TTLSeconds         int    `env:"VECTOR_TTL_SECONDS"    envDefault:"0"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	Server      *ServerConfig
	CORS        *CORSConfig
	OpenAI      *openai.Config
	Embedding   *embeddingopenai.Config
	VectorStore *VectorStoreConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.OpenAI,
		&cfg.Embedding,
		&cfg.VectorStore,
	}
}
