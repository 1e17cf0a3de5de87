// Package llm provides the external LLM collaborator interface.
//
// The LLM provider itself is out of scope for this system (see SPEC_FULL.md
// §1) — this package only defines the narrow contract the core depends on
// and a gRPC-backed implementation that reaches an external completion
// service.
package llm

import "context"

// Client is the LLM collaborator contract the core consumes.
//
// complete(system_prompt, user_prompt) -> string, per SPEC_FULL.md §8.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
