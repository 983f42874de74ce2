// Package llm provides the client abstraction over the language-model
// provider used by the analysis and tailoring stages.
package llm

// ModelTier selects the capability level for a call.
type ModelTier string

const (
	// TierStandard covers structured extraction from posting text.
	TierStandard ModelTier = "standard"
	// TierAdvanced covers resume rewriting and cover-letter drafting.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the per-tier model selection.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// tier when the requested one is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return ""
}
