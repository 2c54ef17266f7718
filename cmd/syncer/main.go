package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/sports-mirror/internal/app"
	"github.com/riskibarqy/sports-mirror/internal/config"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "syncer",
		Short:         "syncer runs mirror sync jobs once, outside the api scheduler",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Bool("force-full", false, "Run a full walk even when an incremental run is possible")

	cmd.AddCommand(runCmd())
	cmd.AddCommand(allCmd())
	cmd.AddCommand(statesCmd())
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <resource>",
		Short: "Sync one resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := resource.ParseName(args[0])
			if !ok {
				return fmt.Errorf("unknown resource %q", args[0])
			}
			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}
			return withSyncService(cmd, func(svc *usecase.SyncService) error {
				result, err := svc.SelectAndRun(cmd.Context(), name, opts)
				if writeErr := writeJSON(cmd.OutOrStdout(), result); writeErr != nil {
					return writeErr
				}
				return err
			})
		},
	}
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Sync every enabled resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}
			return withSyncService(cmd, func(svc *usecase.SyncService) error {
				results, err := svc.SyncAll(cmd.Context(), opts)
				if writeErr := writeJSON(cmd.OutOrStdout(), results); writeErr != nil {
					return writeErr
				}
				return err
			})
		},
	}
}

func statesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "Print the stored sync state of every resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSyncService(cmd, func(svc *usecase.SyncService) error {
				states, err := svc.States(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), states)
			})
		},
	}
}

func runOptions(cmd *cobra.Command) (usecase.RunOptions, error) {
	forceFull, err := cmd.Flags().GetBool("force-full")
	if err != nil {
		return usecase.RunOptions{}, err
	}
	return usecase.RunOptions{ForceFull: forceFull}, nil
}

func withSyncService(cmd *cobra.Command, fn func(svc *usecase.SyncService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Scheduler is never started here.
	cfg.SyncEnabled = false

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName + "-syncer",
		Version: cfg.ServiceVersion,
		Env:     cfg.AppEnv,
		Output:  cmd.ErrOrStderr(),
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app resources failed", "error", err)
		}
	}()

	return fn(application.Sync)
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
