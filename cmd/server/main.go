package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orgmanager/internal/config"
	"orgmanager/internal/logger"
	"orgmanager/internal/server"
	"orgmanager/internal/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "orgmanager",
		Short:         "Multi-tenant organization management API",
		Version:       version.Get().String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	return srv.Run(ctx)
}
