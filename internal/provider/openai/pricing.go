package openai

import (
	"context"
	"fmt"

	"github.com/davidbz/hearth/internal/domain"
)

const (
	// gpt-4o pricing per 1K tokens
	gpt4oInputCostPer1K  = 0.0025
	gpt4oOutputCostPer1K = 0.01
	gpt4oCachedCostPer1K = 0.00125

	// gpt-4o-mini pricing per 1K tokens
	gpt4oMiniInputCostPer1K  = 0.00015
	gpt4oMiniOutputCostPer1K = 0.0006
	gpt4oMiniCachedCostPer1K = 0.000075

	// gpt-4.1 pricing per 1K tokens
	gpt41InputCostPer1K  = 0.002
	gpt41OutputCostPer1K = 0.008
	gpt41CachedCostPer1K = 0.0005

	// o3 pricing per 1K tokens
	o3InputCostPer1K     = 0.002
	o3OutputCostPer1K    = 0.008
	o3ReasoningCostPer1K = 0.008

	// o4-mini pricing per 1K tokens
	o4MiniInputCostPer1K     = 0.0011
	o4MiniOutputCostPer1K    = 0.0044
	o4MiniReasoningCostPer1K = 0.0044
)

// DefaultTier is the fallback rate applied to models missing from the
// registry.
//
//nolint:gochecknoglobals // Seed data, replaced via the registry at runtime
var DefaultTier = domain.ModelPricing{
	InputCostPer1K:  0.001,
	OutputCostPer1K: 0.004,
}

// RegisterPricing seeds the registry with current OpenAI model rates. The
// registry stays authoritative afterward: rates drift, and operators can
// re-register without a rebuild.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.ModelPricing{
		"gpt-4o": {
			InputCostPer1K:  gpt4oInputCostPer1K,
			OutputCostPer1K: gpt4oOutputCostPer1K,
			CachedCostPer1K: gpt4oCachedCostPer1K,
		},
		"gpt-4o-mini": {
			InputCostPer1K:  gpt4oMiniInputCostPer1K,
			OutputCostPer1K: gpt4oMiniOutputCostPer1K,
			CachedCostPer1K: gpt4oMiniCachedCostPer1K,
		},
		"gpt-4.1": {
			InputCostPer1K:  gpt41InputCostPer1K,
			OutputCostPer1K: gpt41OutputCostPer1K,
			CachedCostPer1K: gpt41CachedCostPer1K,
		},
		"o3": {
			InputCostPer1K:     o3InputCostPer1K,
			OutputCostPer1K:    o3OutputCostPer1K,
			ReasoningCostPer1K: o3ReasoningCostPer1K,
		},
		"o4-mini": {
			InputCostPer1K:     o4MiniInputCostPer1K,
			OutputCostPer1K:    o4MiniOutputCostPer1K,
			ReasoningCostPer1K: o4MiniReasoningCostPer1K,
		},
	}

	for model, pricing := range models {
		if err := registry.RegisterPricing(ctx, model, pricing); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}
