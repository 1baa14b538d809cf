// Package gemini implements the provider interface on the official Google
// genai SDK.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"deskagent/internal/provider"
)

// Client defines the slice of the Gemini SDK this package uses. The
// abstraction keeps the provider testable without network access.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SDKClient wraps the official SDK client to satisfy Client.
type SDKClient struct {
	client *genai.Client
}

// NewSDKClient creates an SDKClient from a configured genai client.
func NewSDKClient(client *genai.Client) *SDKClient {
	return &SDKClient{client: client}
}

// GenerateContent calls the SDK's GenerateContent method.
func (c *SDKClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// Provider implements provider.Provider for Gemini models.
type Provider struct {
	client Client
	model  string
}

// New creates a Provider with the given client and model name.
func New(client Client, model string) *Provider {
	return &Provider{client: client, model: model}
}

// Complete sends the request to the Gemini API and returns the reply text.
func (p *Provider) Complete(ctx context.Context, req *provider.CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := p.client.GenerateContent(ctx, p.model, genai.Text(req.User), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", provider.ErrEmptyResponse
	}
	return text, nil
}

// Model returns the active model name.
func (p *Provider) Model() string { return p.model }
