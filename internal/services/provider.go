package services

import (
	"fmt"

	"alfredoptarigan/interview-prep/internal/config"
)

// NewProvider builds the text generator selected by AI_PROVIDER. The embedder
// is always Gemini and is nil when no Gemini key is configured.
func NewProvider(cfg *config.Config) (TextGenerator, Embedder, error) {
	var gemini GeminiService
	if cfg.AI.GeminiAPIKey != "" {
		svc, err := NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.EmbeddingModel, cfg.AI.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		gemini = svc
	}

	var embedder Embedder
	if gemini != nil {
		embedder = gemini
	}

	switch cfg.AI.Provider {
	case config.ProviderGemini:
		if gemini == nil {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY is required for provider %s", config.ProviderGemini)
		}
		return gemini, embedder, nil
	case config.ProviderOpenRouter:
		generator, err := NewOpenRouterService(cfg.AI.OpenRouterAPIKey, cfg.AI.OpenRouterBaseURL, cfg.AI.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		return generator, embedder, nil
	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}
