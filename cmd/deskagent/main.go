// Package main wires the desktop agent together: configuration, logging,
// the translation provider, the safety policy, the executor and the
// interactive shell.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/genai"

	"deskagent/internal/auditlog"
	"deskagent/internal/cli"
	"deskagent/internal/config"
	"deskagent/internal/executor"
	"deskagent/internal/interpreter"
	"deskagent/internal/provider"
	"deskagent/internal/provider/gemini"
	"deskagent/internal/provider/openrouter"
	"deskagent/internal/safety"
	"deskagent/internal/translate"
)

// version is set by ldflags at build time.
var version = "dev"

var (
	verbose    bool
	policyPath string
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deskagent",
	Short: "Natural language desktop control",
	Long: `deskagent translates plain-English commands into desktop actions:
clicking, typing, launching applications, reading and writing files.

Every action passes a safety policy before it runs. Shell commands are
never executed, and risky actions ask for confirmation first.

Set GEMINI_API_KEY or OPENROUTER_API_KEY before starting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		zapConfig.OutputPaths = []string{"stderr"}
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("deskagent", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "path to a safety policy YAML file (default ~/.config/deskagent/policy.yaml)")
	rootCmd.AddCommand(versionCmd)
}

// newProvider picks the translation backend from config and environment.
func newProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	choice := cfg.Model.Provider
	geminiKey := os.Getenv("GEMINI_API_KEY")
	openRouterKey := os.Getenv("OPENROUTER_API_KEY")
	if openRouterKey == "" {
		openRouterKey = os.Getenv("OPENAI_API_KEY")
	}

	if choice == "auto" {
		switch {
		case geminiKey != "":
			choice = "gemini"
		case openRouterKey != "":
			choice = "openrouter"
		default:
			return nil, fmt.Errorf("%w: set GEMINI_API_KEY or OPENROUTER_API_KEY", provider.ErrNoCredentials)
		}
	}

	switch choice {
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: geminiKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.New(gemini.NewSDKClient(client), cfg.Model.GeminiModel), nil
	case "openrouter":
		if openRouterKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is required")
		}
		return openrouter.New(openRouterKey, cfg.Model.OpenRouterModel, openrouter.DefaultBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", choice)
	}
}

func runInteractive(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration.\n")
		cfg = config.DefaultConfig()
	}

	var policy *safety.Policy
	if policyPath != "" {
		policy, err = safety.LoadPolicyFile(policyPath)
	} else {
		policy, err = safety.LoadPolicy()
	}
	if err != nil {
		return fmt.Errorf("failed to load safety policy: %w", err)
	}

	modelProvider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	// The audit log is the record of everything the agent did. Refusing to
	// start without it is deliberate.
	audit, err := auditlog.Open(filepath.Join(cfg.Agent.AuditLogDir, "audit.jsonl"))
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer audit.Close()
	_ = audit.Record(auditlog.Entry{Event: auditlog.EventSession, Detail: "session started"})

	checker := safety.NewChecker(policy, logger)
	translator := translate.New(modelProvider, time.Duration(cfg.Model.RequestTimeoutSeconds)*time.Second, logger)
	exec := executor.New(executor.NewRobotInput(), executor.NewOSProcessManager(), policy.MaxWaitSeconds, logger)

	reader := bufio.NewReader(os.Stdin)
	interactive := false
	if info, statErr := os.Stdin.Stat(); statErr == nil {
		interactive = info.Mode()&os.ModeCharDevice != 0
	}
	confirm := cli.NewConfirmFunc(reader, os.Stdout, interactive)

	interp := interpreter.New(translator, checker, audit, logger, confirm, interpreter.Options{
		HistorySize: cfg.Agent.HistorySize,
		ContextSize: cfg.Agent.ContextCommands,
	})

	shell := cli.New(interp, exec, audit, cfg, logger, reader, os.Stdout, modelProvider.Model())

	err = shell.Run(ctx)
	_ = audit.Record(auditlog.Entry{Event: auditlog.EventSession, Detail: "session ended"})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
