package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-query/internal/config"
	"document-query/internal/llmservice"
	"document-query/internal/logger"
	"document-query/internal/tracker"
)

const configFilePath = "./configs/config.yaml"

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logFile    io.Closer
	newModel   func(ctx context.Context, cfg *config.LLMConfig) (llmservice.Model, error)
}

func newApp() *app {
	return &app{newModel: llmservice.NewModel}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := execute(ctx, a, newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// execute runs root and closes the log file whether or not the command
// succeeded.
func execute(ctx context.Context, a *app, root *cobra.Command) error {
	defer a.close()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "docquery",
		Short:         "Ask questions against a reference document, one section at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", configFilePath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(newAskCmd(a), newPartitionsCmd(a), newCacheCmd(a), newFeedbackCmd(a))
	return root
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logFile, err := logger.Setup(&cfg.Log, cmd.ErrOrStderr(), time.Now())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logFile = logFile
	log.Debug().Interface("config", redacted(cfg)).Msg("Loaded config")
	return nil
}

// redacted returns a copy of cfg safe to log.
func redacted(cfg *config.Config) config.Config {
	out := *cfg
	if out.LLM.Key != "" {
		out.LLM.Key = "***"
	}
	if out.Summary.Key != "" {
		out.Summary.Key = "***"
	}
	return out
}

// interactions returns the interaction log, or nil when tracking is disabled
// or the log directory cannot be created.
func (a *app) interactions() *tracker.Tracker {
	if a.cfg.Tracking.Disabled {
		return nil
	}
	t, err := tracker.New(a.cfg.Tracking.Dir)
	if err != nil {
		log.Warn().Err(err).Msg("Interaction tracking disabled")
		return nil
	}
	return t
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
