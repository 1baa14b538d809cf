// Package provider abstracts the chat-completion backends the translation
// layer can talk to. The core never depends on a concrete SDK.
package provider

import (
	"context"
	"errors"
)

// Sentinel errors shared by provider implementations.
var (
	ErrNoCredentials = errors.New("no model API credential configured")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// CompletionRequest is a single system+user exchange.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Provider produces a text completion for a request. Implementations must
// honor the context deadline; the pipeline enforces the model-call timeout
// through it.
type Provider interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Model returns the active model name for display.
	Model() string
}
