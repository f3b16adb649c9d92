package domain

import (
	"context"
)

const tokensToPerK = 1000.0

// StandardCostEstimator implements token-based cost estimation against an
// injectable rate table.
type StandardCostEstimator struct {
	pricingRegistry PricingRegistry
	defaultTier     ModelPricing
}

// NewStandardCostEstimator creates a new cost estimator. Models missing from
// the registry bill at the default tier.
func NewStandardCostEstimator(registry PricingRegistry, defaultTier ModelPricing) *StandardCostEstimator {
	return &StandardCostEstimator{
		pricingRegistry: registry,
		defaultTier:     defaultTier,
	}
}

// Estimate computes the estimated cost for the given usage and model.
// Unknown usage estimates to 0; unknown models fall back to the default
// tier. Estimation is deterministic and performs no I/O.
func (e *StandardCostEstimator) Estimate(ctx context.Context, usage *UsageSnapshot, model string) float64 {
	if usage == nil {
		return 0
	}

	pricing := e.defaultTier
	if e.pricingRegistry != nil && model != "" {
		if p, err := e.pricingRegistry.GetPricing(ctx, model); err == nil {
			pricing = p
		}
	}

	inputTokens := valueOrZero(usage.PromptTokens)
	outputTokens := valueOrZero(usage.CompletionTokens)

	cost := float64(inputTokens)/tokensToPerK*pricing.InputCostPer1K +
		float64(outputTokens)/tokensToPerK*pricing.OutputCostPer1K

	// Cached input tokens re-bill at the discounted rate when one is set.
	if usage.CachedTokens != nil && pricing.CachedCostPer1K > 0 {
		cached := minInt(*usage.CachedTokens, inputTokens)
		cost -= float64(cached) / tokensToPerK * pricing.InputCostPer1K
		cost += float64(cached) / tokensToPerK * pricing.CachedCostPer1K
	}

	// Reasoning tokens are a subset of output tokens; re-bill at the
	// dedicated rate when one is set.
	if usage.ReasoningTokens != nil && pricing.ReasoningCostPer1K > 0 {
		reasoning := minInt(*usage.ReasoningTokens, outputTokens)
		cost -= float64(reasoning) / tokensToPerK * pricing.OutputCostPer1K
		cost += float64(reasoning) / tokensToPerK * pricing.ReasoningCostPer1K
	}

	return cost
}

func valueOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
