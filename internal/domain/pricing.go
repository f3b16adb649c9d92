package domain

// ModelPricing contains the per-model rate table entry. Cached and
// reasoning rates are optional: a zero value means those tokens bill at the
// base input/output rate.
type ModelPricing struct {
	InputCostPer1K     float64 // USD per 1K input tokens
	OutputCostPer1K    float64 // USD per 1K output tokens
	CachedCostPer1K    float64 // USD per 1K cached input tokens
	ReasoningCostPer1K float64 // USD per 1K reasoning tokens
}
