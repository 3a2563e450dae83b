package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/calc/pkg/api"
	grpcapi "github.com/lemonberrylabs/calc/pkg/api/grpc"
	"github.com/lemonberrylabs/calc/pkg/config"
	"github.com/lemonberrylabs/calc/pkg/store"
	"github.com/lemonberrylabs/calc/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP, gRPC and a web UI",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("config", "", "Path to a YAML config file")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env CALC_HOST)")
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env CALC_PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env CALC_GRPC_PORT)")
	cmd.Flags().Int("history", 0, "Number of evaluations kept in history (default 100, env CALC_HISTORY_SIZE)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error (default info, env CALC_LOG_LEVEL)")
	return cmd
}

// loadConfig resolves settings from the config file, the environment and
// then any flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetInt("history"); v != 0 {
		cfg.HistorySize = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	s := store.New(cfg.HistorySize)
	server := api.New(s, logger)
	web.New(s, logger).Register(server.App())
	grpcServer := grpcapi.New(s, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Addr(), "history", cfg.HistorySize)
		if err := server.Listen(cfg.Addr()); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
		logger.Error("server failed", "error", err)
	}

	grpcServer.GracefulStop()
	if serr := server.Shutdown(); serr != nil {
		logger.Error("error during shutdown", "error", serr)
	}
	return err
}
