// Package translate turns the model's textual reply into a typed action.
// It owns the system contract sent to the model and the one place where the
// reply's JSON is normalized before decoding.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"deskagent/internal/action"
	"deskagent/internal/provider"
)

// fallbackClarification is returned when the clarification call itself fails.
const fallbackClarification = "Sorry, I couldn't process that command safely."

// Translator formats the contract prompt, calls the provider, and parses
// the reply into an action.
type Translator struct {
	provider provider.Provider
	timeout  time.Duration
	log      *zap.Logger
}

// New creates a Translator. The timeout bounds every model call.
func New(p provider.Provider, timeout time.Duration, log *zap.Logger) *Translator {
	return &Translator{provider: p, timeout: timeout, log: log}
}

// Translate converts a free-text command into an action. The hints mapping
// (recent history, platform, directories) is advisory context for the model;
// it carries no authority over safety decisions.
func (t *Translator) Translate(ctx context.Context, command string, hints map[string]any) (action.Action, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var sb strings.Builder
	fmt.Fprintf(&sb, "User command: %s\n", command)
	if len(hints) > 0 {
		if encoded, err := json.MarshalIndent(hints, "", "  "); err == nil {
			fmt.Fprintf(&sb, "Context: %s\n", encoded)
		}
	}
	sb.WriteString("\nPlease convert this to a structured action following the specified format.")

	reply, err := t.provider.Complete(ctx, &provider.CompletionRequest{
		System:      systemContract,
		User:        sb.String(),
		Temperature: 0.1,
		MaxTokens:   1000,
	})
	if err != nil {
		t.log.Error("model call failed", zap.String("command", command), zap.Error(err))
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	a, err := ParseReply(reply)
	if err != nil {
		t.log.Error("failed to parse model reply", zap.String("reply", reply), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// Clarify asks the model to explain a rejection in plain language. It is
// best-effort: any failure yields a canned apology.
func (t *Translator) Clarify(ctx context.Context, command, reason string) string {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`The user's command %q could not be executed because: %s

Please provide a helpful clarification message to the user explaining:
1. Why the command couldn't be executed
2. What they might try instead
3. Any safety considerations

Respond with a clear, helpful message (not JSON).`, command, reason)

	reply, err := t.provider.Complete(ctx, &provider.CompletionRequest{
		System:      clarificationSystem,
		User:        prompt,
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		t.log.Warn("clarification call failed", zap.Error(err))
		return fallbackClarification
	}
	return strings.TrimSpace(reply)
}

// ParseReply normalizes the model's textual reply into an action: optional
// code fences are stripped, the JSON object is flattened (nested
// "parameters" or top-level fields both accepted), reasoning and confidence
// get their defaults, and the result goes through action.Decode.
func ParseReply(reply string) (action.Action, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("reply is not a JSON object: %w", err)
	}

	kind, ok := parsed["action"].(string)
	if !ok || kind == "" {
		return nil, fmt.Errorf("reply missing 'action' field")
	}

	raw := map[string]any{
		"action":     kind,
		"reasoning":  "No reasoning provided",
		"confidence": 0.5,
	}
	if reasoning, ok := parsed["reasoning"].(string); ok && reasoning != "" {
		raw["reasoning"] = reasoning
	}
	if confidence, ok := parsed["confidence"].(float64); ok {
		raw["confidence"] = confidence
	}

	if kind == string(action.KindError) {
		raw["error"] = "Unknown error"
		if msg, ok := parsed["error"].(string); ok && msg != "" {
			raw["error"] = msg
		}
		return action.Decode(raw)
	}

	if params, ok := parsed["parameters"].(map[string]any); ok {
		for key, value := range params {
			raw[key] = value
		}
	} else {
		for key, value := range parsed {
			switch key {
			case "action", "reasoning", "confidence", "safety_notes":
			default:
				raw[key] = value
			}
		}
	}

	return action.Decode(raw)
}
