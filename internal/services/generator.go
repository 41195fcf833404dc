package services

import "context"

// TextGenerator sends one prompt to a generative model and returns its raw text.
// Implementations make a single attempt per call.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, model string) (string, error)
	Provider() string
}

// Embedder turns text into a vector for the question index.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}
