package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"humblesync/internal/config"
	"humblesync/internal/downloads"
	"humblesync/internal/humblecli"
	"humblesync/internal/logging"
	"humblesync/internal/ui"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse bundles and queue downloads interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outputDir != "" {
				expanded, err := config.ExpandPath(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				cfg.Paths.OutputDir = expanded
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "humblesync.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another humblesync instance is already running")
			}
			defer func() { _ = lock.Unlock() }()

			// The TUI owns the terminal, so logs go to file only.
			logger, err := logging.NewFileOnly(cfg)
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}

			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := client.Check(runCtx); err != nil {
				if errors.Is(err, humblecli.ErrTool) {
					return fmt.Errorf("%v (install it with: cargo install humble-cli)", err)
				}
				return err
			}

			store, err := ctx.openTracker()
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := ctx.newManager(store)
			if err != nil {
				return err
			}

			queue, err := downloads.NewQueue(cfg.Downloads.MaxConcurrent)
			if err != nil {
				return err
			}

			bridge := ui.NewBridge()
			orchestrator, err := downloads.NewOrchestrator(queue, manager,
				downloads.WithCompletionStore(manager),
				downloads.WithNotifier(bridge),
				downloads.WithRemovalScheduler(bridge),
				downloads.WithRemovalDelay(time.Duration(cfg.Downloads.ItemRemovalSecs)*time.Second),
				downloads.WithAcquireTimeout(time.Duration(cfg.Downloads.AcquireTimeoutSecs)*time.Second),
				downloads.WithChangeHook(bridge.Changed),
				downloads.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			logger.Info("starting tui",
				"output_dir", cfg.Paths.OutputDir,
				"max_concurrent", cfg.Downloads.MaxConcurrent)

			err = ui.Run(runCtx, ui.Options{
				Context:      runCtx,
				Manager:      manager,
				Queue:        queue,
				Orchestrator: orchestrator,
				NoticeTTL:    time.Duration(cfg.Downloads.NotificationSecs) * time.Second,
			}, bridge)

			// Let in-flight transfers finish their bookkeeping before the
			// tracker database closes.
			orchestrator.Wait()
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Download destination directory (overrides config)")
	return cmd
}
