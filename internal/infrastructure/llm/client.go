package llm

import "context"

// Provider is the contract for an external text-completion service: one
// single-turn prompt in, generated text out. Advisors depend on this
// interface, not on a concrete client, so tests can substitute fakes.
type Provider interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
