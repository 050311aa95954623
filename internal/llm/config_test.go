package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.NotEmpty(t, config.Models[TierLite])
	assert.NotEmpty(t, config.Models[TierStandard])
	assert.Positive(t, config.Timeout)
}

func TestDefaultOllamaConfig(t *testing.T) {
	config := DefaultOllamaConfig()

	assert.Equal(t, ProviderOllama, config.Provider)
	assert.Equal(t, "http://localhost:11434", config.OllamaBaseURL)
	assert.NotEmpty(t, config.Models[TierStandard])
}

func TestGetModel_FallbackChain(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierStandard: "standard-model",
		},
	}

	// Unknown tier falls back to standard
	assert.Equal(t, "standard-model", config.GetModel(TierLite))
	assert.Equal(t, "standard-model", config.GetModel(TierStandard))
}

func TestGetModel_LiteOnlyFallback(t *testing.T) {
	config := &Config{
		Models: map[ModelTier]string{
			TierLite: "lite-model",
		},
	}

	assert.Equal(t, "lite-model", config.GetModel(TierStandard))
}

func TestGetModel_NoModels(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{}}

	assert.Empty(t, config.GetModel(TierStandard))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	original := DefaultGeminiConfig()
	originalStandard := original.Models[TierStandard]

	modified := original.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", modified.GetModel(TierStandard))
	assert.Equal(t, originalStandard, original.GetModel(TierStandard))
}
