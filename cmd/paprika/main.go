package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paprika/config"
	"paprika/pkg/logging"
	"paprika/pkg/season/client"
	"paprika/pkg/season/service"
	"paprika/pkg/season/serviceImp"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cmd := newRootCommand(&cfg, logger)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(cfg *config.AppConfig, logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "paprika",
		Short:         "Pepper season stage tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	root.PersistentFlags().StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "season API base URL")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if logger == nil {
			return errors.New("logger is required")
		}
		logger.Debug("command invocation", zap.String("command", cmd.CommandPath()))
		return nil
	}

	remote := func() service.SeasonService {
		return serviceImp.New(client.New(cfg.APIBaseURL, client.WithToken(cfg.APIToken)), logger)
	}
	root.AddCommand(
		newServeCommand(cfg, logger),
		newStageCommand(remote),
		newSeasonCommand(remote),
	)
	return root
}
