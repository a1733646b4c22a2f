package ai

import "context"

// Completer is the outbound language-model boundary. Implementations live in
// the provider subpackages; everything above them talks prompt-in, text-out.
type Completer interface {
	// Complete sends the prompt and returns the model's textual reply.
	Complete(ctx context.Context, prompt string) (string, error)
	// Provider names the backing service, e.g. "openai" or "gemini".
	Provider() string
	// Model returns the configured model identifier.
	Model() string
}
