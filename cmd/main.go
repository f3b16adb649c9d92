package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/hearth/internal/config"
	"github.com/davidbz/hearth/internal/domain"
	embeddingopenai "github.com/davidbz/hearth/internal/embedding/openai"
	"github.com/davidbz/hearth/internal/http"
	"github.com/davidbz/hearth/internal/http/middleware"
	"github.com/davidbz/hearth/internal/observability"
	"github.com/davidbz/hearth/internal/provider/openai"
	"github.com/davidbz/hearth/internal/stream"
	vectorredis "github.com/davidbz/hearth/internal/vectorstore/redis"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.InteractionLogger {
		return observability.NewInteractionRecorder(logger)
	}); err != nil {
		log.Fatalf("Failed to provide interaction recorder: %v", err)
	}

	// Pricing
	if err := container.Provide(func() domain.PricingRegistry {
		return domain.NewInMemoryPricingRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide pricing registry: %v", err)
	}
	if err := container.Invoke(func(registry domain.PricingRegistry) error {
		return openai.RegisterPricing(context.Background(), registry)
	}); err != nil {
		log.Fatalf("Failed to register model pricing: %v", err)
	}
	if err := container.Provide(func(registry domain.PricingRegistry) domain.CostEstimator {
		return domain.NewStandardCostEstimator(registry, openai.DefaultTier)
	}); err != nil {
		log.Fatalf("Failed to provide cost estimator: %v", err)
	}

	// OpenAI Provider
	if err := container.Provide(func(cfg *openai.Config) (domain.Provider, error) {
		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}

	// Streaming Engine
	if err := container.Provide(func(
		estimator domain.CostEstimator,
		interactions domain.InteractionLogger,
	) domain.StreamEngine {
		return stream.NewEngine(estimator, interactions)
	}); err != nil {
		log.Fatalf("Failed to provide stream engine: %v", err)
	}

	// Embeddings (optional; nil disables the vector store endpoints)
	if err := container.Provide(func(cfg *embeddingopenai.Config) (domain.EmbeddingGenerator, error) {
		if cfg.APIKey == "" {
			return nil, nil
		}
		return embeddingopenai.NewGenerator(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide embedding generator: %v", err)
	}

	// Vector Store (optional)
	if err := container.Provide(func(cfg *config.VectorStoreConfig) (domain.VectorStore, error) {
		if !cfg.Enabled {
			return nil, nil
		}

		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		return vectorredis.NewStore(redis.NewClient(opts), cfg.IndexName, cfg.EmbeddingDimension)
	}); err != nil {
		log.Fatalf("Failed to provide vector store: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewGatewayService); err != nil {
		log.Fatalf("Failed to provide gateway service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
