package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Model ModelConfig `json:"model"`
	Agent AgentConfig `json:"agent"`
}

type ModelConfig struct {
	// Provider selects the translation backend: "auto", "gemini" or
	// "openrouter". "auto" picks based on which API key is set.
	Provider string `json:"provider"` // Default: "auto"

	// GeminiModel is the model used with the Gemini backend.
	GeminiModel string `json:"gemini_model"` // Default: "gemini-2.5-flash"

	// OpenRouterModel is the model used with the OpenRouter backend.
	OpenRouterModel string `json:"openrouter_model"` // Default: "openai/gpt-4o-mini"

	// RequestTimeoutSeconds bounds each translation request.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"` // Default: 30
}

type AgentConfig struct {
	// HistorySize is how many completed commands the session remembers.
	HistorySize int `json:"history_size"` // Default: 10

	// ContextCommands is how many recent commands are sent to the model
	// as translation context.
	ContextCommands int `json:"context_commands"` // Default: 3

	// AuditLogDir is where the JSONL audit log lives. Relative paths are
	// resolved against the working directory.
	AuditLogDir string `json:"audit_log_dir"` // Default: "logs"

	// Debug enables verbose logging.
	Debug bool `json:"debug"` // Default: false
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:              "auto",
			GeminiModel:           "gemini-2.5-flash",
			OpenRouterModel:       "openai/gpt-4o-mini",
			RequestTimeoutSeconds: 30,
		},
		Agent: AgentConfig{
			HistorySize:     10,
			ContextCommands: 3,
			AuditLogDir:     "logs",
			Debug:           false,
		},
	}
}
