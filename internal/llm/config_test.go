package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	assert.Equal(t, ProviderGemini, ParseProvider("gemini"))
	assert.Equal(t, ProviderOpenAI, ParseProvider("openai"))
	// Unknown values default to OpenAI
	assert.Equal(t, ProviderOpenAI, ParseProvider(""))
	assert.Equal(t, ProviderOpenAI, ParseProvider("anthropic"))
}

func TestGetModel_TierFallback(t *testing.T) {
	cfg := &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierStandard: "gpt-4o-mini",
		},
	}

	// Missing tier falls back to standard
	assert.Equal(t, "gpt-4o-mini", cfg.GetModel(TierLite))
	assert.Equal(t, "gpt-4o-mini", cfg.GetModel(TierStandard))

	empty := &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	base := DefaultOpenAIConfig()
	custom := base.WithModel(TierStandard, "gpt-4.1")

	assert.Equal(t, "gpt-4.1", custom.GetModel(TierStandard))
	assert.Equal(t, "gpt-4o-mini", base.GetModel(TierStandard))
	assert.Equal(t, base.Temperature, custom.Temperature)
}

func TestDefaultConfigs(t *testing.T) {
	assert.Equal(t, ProviderOpenAI, DefaultConfig().Provider)
	assert.Equal(t, ProviderGemini, DefaultGeminiConfig().Provider)
	assert.NotEmpty(t, DefaultGeminiConfig().GetModel(TierLite))
}
