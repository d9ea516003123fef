package main

import (
	"github.com/spf13/cobra"

	"humblesync/internal/report"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [bundle-key]",
		Short: "Show download completion status",
		Long: `Show download completion status from the local tracker database.

Without arguments this prints a per-bundle summary. With a bundle key it
prints the downloaded files of that bundle. No humble-cli calls are made;
the report works offline.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openTracker()
			if err != nil {
				return err
			}
			defer store.Close()

			renderer := report.NewRenderer(cmd.OutOrStdout())
			runCtx := cmd.Context()

			if len(args) == 1 {
				bundleKey := args[0]
				stats, err := store.Stats(runCtx, bundleKey)
				if err != nil {
					return err
				}
				files, err := store.DownloadedFiles(runCtx, bundleKey)
				if err != nil {
					return err
				}
				renderer.BundleStatus("", stats, files)
				return nil
			}

			bundles, err := store.TrackedBundles(runCtx)
			if err != nil {
				return err
			}
			total, err := store.TotalDownloaded(runCtx)
			if err != nil {
				return err
			}
			renderer.Summary(bundles, total)
			return nil
		},
	}

	return cmd
}
