// Package safety decides whether a well-formed action may run and whether it
// needs a human confirmation step first. The rules are a fixed, explicit
// allow/deny list: the action vocabulary is small and closed, so a closed-list
// policy stays auditable and has no injection surface of its own.
package safety

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// PolicyDir is the directory name under ~/.config
	PolicyDir = "deskagent"
	// PolicyFile is the policy override file name
	PolicyFile = "policy.yaml"
)

// Policy holds the safety rule configuration. It is loaded once at startup
// and treated as immutable afterwards.
type Policy struct {
	// WhitelistedApps are application name fragments; open_app/close_app
	// targets must contain one of them (case-insensitive).
	WhitelistedApps []string `yaml:"whitelisted_apps"`

	// DangerousKeywords are compiled once into case-insensitive matchers
	// applied to typed text and file-write content.
	DangerousKeywords []string `yaml:"dangerous_keywords"`

	// SafeExtensions is the allow-list for file_write targets.
	SafeExtensions []string `yaml:"safe_extensions"`

	// RestrictedDirs are absolute path prefixes no file action may touch.
	RestrictedDirs []string `yaml:"restricted_dirs"`

	// DangerousKeys are key combinations denied outright.
	DangerousKeys []string `yaml:"dangerous_keys"`

	// SensitiveLocationWords flag file paths that force confirmation even
	// for kinds outside the fixed confirmation set.
	SensitiveLocationWords []string `yaml:"sensitive_location_words"`

	RequireConfirmation bool `yaml:"require_confirmation"`

	// Size and range limits.
	MaxReadSize    int64   `yaml:"max_read_size"`
	MaxWriteSize   int     `yaml:"max_write_size"`
	MaxTypeLength  int     `yaml:"max_type_length"`
	MaxWaitSeconds float64 `yaml:"max_wait_seconds"`
	MaxX           int     `yaml:"max_x"`
	MaxY           int     `yaml:"max_y"`
}

// DefaultPolicy returns the built-in rule set.
func DefaultPolicy() *Policy {
	return &Policy{
		WhitelistedApps: []string{
			"notepad.exe", "notepad++.exe", "code.exe", "chrome.exe",
			"firefox.exe", "calculator.exe", "mspaint.exe", "explorer.exe",
			"cmd.exe", "powershell.exe", "wordpad.exe", "write.exe",
			"gedit", "kate", "nano", "vim", "emacs", "firefox", "chromium",
			"nautilus", "dolphin", "thunar", "pcmanfm", "calc", "gnome-calculator",
		},
		DangerousKeywords: []string{
			"format", "delete", "remove", "rm -rf", "del /f", "shutdown",
			"restart", "reboot", "kill", "taskkill", "sudo rm", "rmdir",
			"fdisk", "mkfs", "dd if=", "wget", "curl", "powershell -c",
			"cmd /c", "bash -c", "eval", "exec",
		},
		SafeExtensions: []string{
			".txt", ".md", ".json", ".csv", ".xml", ".html", ".css", ".js",
			".py", ".java", ".cpp", ".c", ".h", ".go", ".rs", ".php", ".rb",
		},
		RestrictedDirs: []string{
			"/etc", "/bin", "/sbin", "/usr/bin", "/usr/sbin", "/root",
			`C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`,
			"/System", "/Library", "/usr/lib", "/lib",
		},
		DangerousKeys: []string{
			"alt+f4", "ctrl+alt+del", "cmd+q", "win+r",
		},
		SensitiveLocationWords: []string{
			"system", "program", "windows",
		},
		RequireConfirmation: true,
		MaxReadSize:         50 * 1024 * 1024,
		MaxWriteSize:        10 * 1024 * 1024,
		MaxTypeLength:       10000,
		MaxWaitSeconds:      60,
		MaxX:                3840,
		MaxY:                2160,
	}
}

// LoadPolicy reads ~/.config/deskagent/policy.yaml and merges it over the
// defaults. A missing file yields the defaults; a malformed one is an error.
func LoadPolicy() (*Policy, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultPolicy(), nil
	}
	return LoadPolicyFile(filepath.Join(homeDir, ".config", PolicyDir, PolicyFile))
}

// LoadPolicyFile loads a policy override from an explicit path.
func LoadPolicyFile(path string) (*Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, nil
		}
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	// Present keys overwrite defaults; missing keys keep them.
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Validate rejects limit values that would disable the policy's caps.
func (p *Policy) Validate() error {
	if p.MaxReadSize <= 0 {
		return fmt.Errorf("max_read_size must be positive")
	}
	if p.MaxWriteSize <= 0 {
		return fmt.Errorf("max_write_size must be positive")
	}
	if p.MaxTypeLength <= 0 {
		return fmt.Errorf("max_type_length must be positive")
	}
	if p.MaxWaitSeconds <= 0 {
		return fmt.Errorf("max_wait_seconds must be positive")
	}
	if p.MaxX <= 0 || p.MaxY <= 0 {
		return fmt.Errorf("coordinate bounds must be positive")
	}
	return nil
}
