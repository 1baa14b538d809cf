package config

import (
	"fmt"
)

var validProviders = map[string]bool{
	"auto":       true,
	"gemini":     true,
	"openrouter": true,
}

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Model validation
	if !validProviders[c.Model.Provider] {
		errs = append(errs, "model.provider must be one of: auto, gemini, openrouter")
	}
	if c.Model.GeminiModel == "" {
		errs = append(errs, "model.gemini_model must not be empty")
	}
	if c.Model.OpenRouterModel == "" {
		errs = append(errs, "model.openrouter_model must not be empty")
	}
	if c.Model.RequestTimeoutSeconds < 1 {
		errs = append(errs, "model.request_timeout_seconds must be >= 1")
	}

	// Agent validation
	if c.Agent.HistorySize < 1 {
		errs = append(errs, "agent.history_size must be >= 1")
	}
	if c.Agent.ContextCommands < 0 {
		errs = append(errs, "agent.context_commands must be >= 0")
	}
	if c.Agent.ContextCommands > c.Agent.HistorySize {
		errs = append(errs, "agent.context_commands must be <= agent.history_size")
	}
	if c.Agent.AuditLogDir == "" {
		errs = append(errs, "agent.audit_log_dir must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
