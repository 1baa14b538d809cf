package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"deskagent/internal/action"
)

// Verdict is the result of validating a single action.
type Verdict struct {
	Safe   bool
	Reason string
}

func allow(reason string) Verdict  { return Verdict{Safe: true, Reason: reason} }
func reject(reason string) Verdict { return Verdict{Safe: false, Reason: reason} }

// Checker validates actions against an immutable Policy. It is pure apart
// from logging and the filesystem probes the file rules need.
type Checker struct {
	policy   *Policy
	matchers []*regexp.Regexp
	log      *zap.Logger
}

// NewChecker compiles the policy's dangerous keywords into case-insensitive
// matchers once and returns a ready checker.
func NewChecker(policy *Policy, log *zap.Logger) *Checker {
	matchers := make([]*regexp.Regexp, 0, len(policy.DangerousKeywords))
	for _, keyword := range policy.DangerousKeywords {
		matchers = append(matchers, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(keyword)))
	}
	return &Checker{
		policy:   policy,
		matchers: matchers,
		log:      log,
	}
}

// Validate decides whether an already-well-formed action may run.
func (c *Checker) Validate(a action.Action) Verdict {
	verdict := c.validate(a)
	if verdict.Safe {
		c.log.Debug("safety check passed",
			zap.String("kind", string(a.Kind())),
			zap.String("reason", verdict.Reason))
	} else {
		c.log.Warn("safety check failed",
			zap.String("kind", string(a.Kind())),
			zap.String("reason", verdict.Reason))
	}
	return verdict
}

func (c *Checker) validate(a action.Action) Verdict {
	switch v := a.(type) {
	case action.ShellExec:
		// Never permitted regardless of parameters.
		return reject("shell command execution is not allowed")
	case action.Click:
		return c.validateCoordinates(v.X, v.Y)
	case action.MouseMove:
		return c.validateCoordinates(v.X, v.Y)
	case action.TypeText:
		return c.validateTypeText(v)
	case action.OpenApp:
		return c.validateApp(v.AppName)
	case action.CloseApp:
		return c.validateApp(v.AppName)
	case action.FileRead:
		return c.validateFileRead(v)
	case action.FileWrite:
		return c.validateFileWrite(v)
	case action.KeyPress:
		return c.validateKeyPress(v)
	default:
		return allow("action kind validated")
	}
}

func (c *Checker) validateCoordinates(x, y int) Verdict {
	if x < 0 || x > c.policy.MaxX || y < 0 || y > c.policy.MaxY {
		return reject(fmt.Sprintf("coordinates (%d, %d) out of reasonable range", x, y))
	}
	return allow("coordinates validated")
}

func (c *Checker) validateTypeText(a action.TypeText) Verdict {
	if term := c.matchDangerous(a.Text); term != "" {
		return reject(fmt.Sprintf("dangerous text pattern detected: %s", term))
	}
	if len(a.Text) > c.policy.MaxTypeLength {
		return reject("text too long for safety")
	}
	return allow("type action validated")
}

func (c *Checker) validateApp(appName string) Verdict {
	lowered := strings.ToLower(appName)
	for _, allowed := range c.policy.WhitelistedApps {
		if strings.Contains(lowered, strings.ToLower(allowed)) {
			return allow("app action validated")
		}
	}
	return reject(fmt.Sprintf("application '%s' not in whitelist", appName))
}

func (c *Checker) validateFileRead(a action.FileRead) Verdict {
	resolved, err := filepath.Abs(a.FilePath)
	if err != nil {
		return reject(fmt.Sprintf("cannot resolve path: %v", err))
	}

	if dir := c.restrictedPrefix(resolved); dir != "" {
		return reject(fmt.Sprintf("access to restricted directory: %s", dir))
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return reject("file does not exist")
	}
	if info.Size() > c.policy.MaxReadSize {
		return reject("file too large for safety")
	}
	return allow("file read validated")
}

func (c *Checker) validateFileWrite(a action.FileWrite) Verdict {
	resolved, err := filepath.Abs(a.FilePath)
	if err != nil {
		return reject(fmt.Sprintf("cannot resolve path: %v", err))
	}

	if dir := c.restrictedPrefix(resolved); dir != "" {
		return reject(fmt.Sprintf("write to restricted directory: %s", dir))
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if !slices.Contains(c.policy.SafeExtensions, ext) {
		return reject(fmt.Sprintf("unsafe file extension: %s", ext))
	}

	if term := c.matchDangerous(a.Content); term != "" {
		return reject("dangerous content pattern detected")
	}

	if len(a.Content) > c.policy.MaxWriteSize {
		return reject("content too large for safety")
	}
	return allow("file write validated")
}

func (c *Checker) validateKeyPress(a action.KeyPress) Verdict {
	key := strings.ToLower(strings.TrimSpace(a.Key))
	if slices.Contains(c.policy.DangerousKeys, key) {
		return reject(fmt.Sprintf("dangerous key combination: %s", key))
	}
	return allow("key action validated")
}

// RequiresConfirmation reports whether the action must pass a human
// confirmation gate before execution.
func (c *Checker) RequiresConfirmation(a action.Action) bool {
	if !c.policy.RequireConfirmation {
		return false
	}

	switch a.Kind() {
	case action.KindFileWrite, action.KindOpenApp, action.KindCloseApp:
		return true
	}

	// A sensitive-looking file path forces confirmation even for kinds
	// outside the fixed set.
	if fp := strings.ToLower(action.FilePath(a)); fp != "" {
		for _, word := range c.policy.SensitiveLocationWords {
			if strings.Contains(fp, word) {
				return true
			}
		}
	}
	return false
}

// matchDangerous returns the first dangerous keyword found in text, or "".
func (c *Checker) matchDangerous(text string) string {
	for i, matcher := range c.matchers {
		if matcher.MatchString(text) {
			return c.policy.DangerousKeywords[i]
		}
	}
	return ""
}

// restrictedPrefix returns the restricted directory the resolved path falls
// under, or "". Plain prefix containment, matching the policy's granularity.
func (c *Checker) restrictedPrefix(resolved string) string {
	for _, dir := range c.policy.RestrictedDirs {
		if strings.HasPrefix(resolved, dir) {
			return dir
		}
	}
	return ""
}
