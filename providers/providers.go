// Package providers defines the narrow interfaces through which the core
// reaches its external model collaborators. Implementations own transport
// concerns (timeouts, authentication); the core owns none of them.
package providers

import "context"

// Embedder converts text into a fixed-length numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer invokes a language model chat completion in structured-output
// mode and returns the raw JSON payload of the first choice.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}
