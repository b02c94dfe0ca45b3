package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"users-api/internal/cluster"
	"users-api/internal/config"
	"users-api/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "users-api",
		Short:         "REST service for user records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Int("port", 3000, "HTTP port (env PORT, RESERVE_PORT)")
	root.PersistentFlags().String("store", config.StoreMemory, "record store driver: memory or sqlite")
	root.PersistentFlags().String("log-level", "info", "log level")

	root.AddCommand(newServeCommand(), newClusterCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a single worker process",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gin.SetMode(gin.ReleaseMode)
			if err := server.Run(ctx, cfg, logger); err != nil {
				return err
			}
			logger.Info("bye")
			return nil
		},
	}
}

func newClusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Run a coordinator that keeps one worker per CPU core running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			spawner, err := cluster.SelfSpawner(
				"serve",
				"--port", strconv.Itoa(cfg.Server.Port),
				"--store", cfg.Store.Driver,
				"--log-level", cfg.Log.Level,
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sup := cluster.NewSupervisor(cluster.Config{
				Workers: cfg.Cluster.Workers,
				Logger:  logger,
			}, spawner)
			return sup.Run(ctx)
		},
	}
	cmd.Flags().Int("workers", 0, "number of workers (default: number of CPUs)")
	return cmd
}

func setup(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	return cfg, logger, nil
}
