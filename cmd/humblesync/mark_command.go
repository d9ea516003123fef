package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"humblesync/internal/tracker"
)

func newMarkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <bundle-key> <item-number> <format>",
		Short: "Manually mark a file as downloaded",
		Long: `Manually mark one format of one bundle item as downloaded.

Useful after fetching a file outside humblesync, or to skip an item the
TUI keeps offering.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundleKey := strings.TrimSpace(args[0])
			itemNumber, err := strconv.Atoi(args[1])
			if err != nil || itemNumber <= 0 {
				return fmt.Errorf("item number must be a positive integer, got %q", args[1])
			}
			format := strings.TrimSpace(args[2])
			if bundleKey == "" || format == "" {
				return fmt.Errorf("bundle key and format are required")
			}

			store, err := ctx.openTracker()
			if err != nil {
				return err
			}
			defer store.Close()

			fileID := tracker.FileID(bundleKey, itemNumber, format)
			rec := tracker.Record{
				FileID:    fileID,
				BundleKey: bundleKey,
				Filename:  fmt.Sprintf("item_%d.%s", itemNumber, strings.ToLower(format)),
			}
			if err := store.MarkDownloaded(cmd.Context(), rec); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as downloaded\n", fileID)
			return nil
		},
	}
}
