package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskagent/internal/config"
	"deskagent/internal/provider"
)

func TestNewProviderNoKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := newProvider(context.Background(), config.DefaultConfig())

	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrNoCredentials)
}

func TestNewProviderAutoPicksOpenRouter(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")

	p, err := newProvider(context.Background(), config.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.Model())
}

func TestNewProviderOpenAIKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	p, err := newProvider(context.Background(), config.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.Model())
}

func TestNewProviderExplicitChoiceNeedsItsKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")

	cfg := config.DefaultConfig()
	cfg.Model.Provider = "gemini"

	_, err := newProvider(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
