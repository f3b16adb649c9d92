package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// InMemoryPricingRegistry stores model rates in memory. Rates are seeded at
// startup and may be replaced at runtime when provider pricing drifts.
type InMemoryPricingRegistry struct {
	mu      sync.RWMutex
	pricing map[string]ModelPricing
}

// NewInMemoryPricingRegistry creates a new in-memory pricing registry.
func NewInMemoryPricingRegistry() *InMemoryPricingRegistry {
	return &InMemoryPricingRegistry{
		mu:      sync.RWMutex{},
		pricing: make(map[string]ModelPricing),
	}
}

// GetPricing retrieves the rates for a model.
func (r *InMemoryPricingRegistry) GetPricing(
	_ context.Context,
	model string,
) (ModelPricing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pricing, exists := r.pricing[model]
	if !exists {
		return ModelPricing{}, fmt.Errorf("pricing not found for model: %s", model)
	}

	return pricing, nil
}

// RegisterPricing adds or replaces the rates for a model.
func (r *InMemoryPricingRegistry) RegisterPricing(
	_ context.Context,
	model string,
	pricing ModelPricing,
) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pricing[model] = pricing
	return nil
}
