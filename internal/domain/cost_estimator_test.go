package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/hearth/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestStandardCostEstimator_Estimate(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()

	// Register test pricing
	err := registry.RegisterPricing(ctx, "test-model", domain.ModelPricing{
		InputCostPer1K:  0.01,
		OutputCostPer1K: 0.02,
	})
	require.NoError(t, err)

	err = registry.RegisterPricing(ctx, "cached-model", domain.ModelPricing{
		InputCostPer1K:  0.01,
		OutputCostPer1K: 0.02,
		CachedCostPer1K: 0.005,
	})
	require.NoError(t, err)

	err = registry.RegisterPricing(ctx, "reasoning-model", domain.ModelPricing{
		InputCostPer1K:     0.01,
		OutputCostPer1K:    0.02,
		ReasoningCostPer1K: 0.04,
	})
	require.NoError(t, err)

	defaultTier := domain.ModelPricing{
		InputCostPer1K:  0.001,
		OutputCostPer1K: 0.004,
	}
	estimator := domain.NewStandardCostEstimator(registry, defaultTier)

	tests := []struct {
		name         string
		model        string
		usage        *domain.UsageSnapshot
		expectedCost float64
	}{
		{
			name:  "estimate cost for known model",
			model: "test-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(1000),
				CompletionTokens: intPtr(500),
			},
			expectedCost: 0.02, // (1000/1000 * 0.01) + (500/1000 * 0.02)
		},
		{
			name:  "unknown model falls back to default tier",
			model: "unknown-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(1000),
				CompletionTokens: intPtr(500),
			},
			expectedCost: 0.003, // (1000/1000 * 0.001) + (500/1000 * 0.004)
		},
		{
			name:         "unknown usage estimates to zero",
			model:        "test-model",
			usage:        nil,
			expectedCost: 0,
		},
		{
			name:  "zero tokens estimates to zero",
			model: "test-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(0),
				CompletionTokens: intPtr(0),
			},
			expectedCost: 0,
		},
		{
			name:  "absent token fields count as zero",
			model: "test-model",
			usage: &domain.UsageSnapshot{
				CompletionTokens: intPtr(500),
			},
			expectedCost: 0.01, // 500/1000 * 0.02
		},
		{
			name:  "cached tokens re-bill at the discounted rate",
			model: "cached-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(1000),
				CompletionTokens: intPtr(500),
				CachedTokens:     intPtr(400),
			},
			// base 0.02, minus 400/1000*0.01, plus 400/1000*0.005
			expectedCost: 0.018,
		},
		{
			name:  "cached tokens clamp to input tokens",
			model: "cached-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(100),
				CompletionTokens: intPtr(0),
				CachedTokens:     intPtr(500),
			},
			// only 100 can be cached: 0.001 - 0.001 + 100/1000*0.005
			expectedCost: 0.0005,
		},
		{
			name:  "cached tokens ignored when no cached rate is set",
			model: "test-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(1000),
				CompletionTokens: intPtr(500),
				CachedTokens:     intPtr(400),
			},
			expectedCost: 0.02,
		},
		{
			name:  "reasoning tokens re-bill at the dedicated rate",
			model: "reasoning-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(1000),
				CompletionTokens: intPtr(500),
				ReasoningTokens:  intPtr(200),
			},
			// base 0.02, minus 200/1000*0.02, plus 200/1000*0.04
			expectedCost: 0.024,
		},
		{
			name:  "reasoning tokens clamp to output tokens",
			model: "reasoning-model",
			usage: &domain.UsageSnapshot{
				PromptTokens:     intPtr(0),
				CompletionTokens: intPtr(100),
				ReasoningTokens:  intPtr(900),
			},
			// only 100 re-bill: 0.002 - 0.002 + 100/1000*0.04
			expectedCost: 0.004,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := estimator.Estimate(ctx, tt.usage, tt.model)
			require.InDelta(t, tt.expectedCost, cost, 0.000001)
		})
	}
}

func TestStandardCostEstimator_Deterministic(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()
	require.NoError(t, registry.RegisterPricing(ctx, "test-model", domain.ModelPricing{
		InputCostPer1K:  0.01,
		OutputCostPer1K: 0.02,
	}))

	estimator := domain.NewStandardCostEstimator(registry, domain.ModelPricing{})
	usage := &domain.UsageSnapshot{
		PromptTokens:     intPtr(123),
		CompletionTokens: intPtr(456),
	}

	first := estimator.Estimate(ctx, usage, "test-model")
	for range 10 {
		require.InDelta(t, first, estimator.Estimate(ctx, usage, "test-model"), 0)
	}
}

func TestInMemoryPricingRegistry_RegisterAndGet(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()

	t.Run("register and retrieve pricing", func(t *testing.T) {
		pricing := domain.ModelPricing{
			InputCostPer1K:  0.03,
			OutputCostPer1K: 0.06,
		}

		err := registry.RegisterPricing(ctx, "gpt-4o", pricing)
		require.NoError(t, err)

		retrieved, err := registry.GetPricing(ctx, "gpt-4o")
		require.NoError(t, err)
		require.InDelta(t, pricing.InputCostPer1K, retrieved.InputCostPer1K, 0.0001)
		require.InDelta(t, pricing.OutputCostPer1K, retrieved.OutputCostPer1K, 0.0001)
	})

	t.Run("get pricing for non-existent model returns error", func(t *testing.T) {
		_, err := registry.GetPricing(ctx, "non-existent-model")
		require.Error(t, err)
	})

	t.Run("register with empty model returns error", func(t *testing.T) {
		err := registry.RegisterPricing(ctx, "", domain.ModelPricing{
			InputCostPer1K:  0.01,
			OutputCostPer1K: 0.02,
		})
		require.Error(t, err)
	})

	t.Run("overwrite existing pricing", func(t *testing.T) {
		first := domain.ModelPricing{
			InputCostPer1K:  0.01,
			OutputCostPer1K: 0.02,
		}
		second := domain.ModelPricing{
			InputCostPer1K:  0.05,
			OutputCostPer1K: 0.10,
		}

		err := registry.RegisterPricing(ctx, "test-model", first)
		require.NoError(t, err)

		err = registry.RegisterPricing(ctx, "test-model", second)
		require.NoError(t, err)

		retrieved, err := registry.GetPricing(ctx, "test-model")
		require.NoError(t, err)
		require.InDelta(t, second.InputCostPer1K, retrieved.InputCostPer1K, 0.0001)
		require.InDelta(t, second.OutputCostPer1K, retrieved.OutputCostPer1K, 0.0001)
	})
}
