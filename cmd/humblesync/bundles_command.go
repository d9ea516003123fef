package main

import (
	"github.com/spf13/cobra"

	"humblesync/internal/report"
)

func newBundlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List purchased bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openTracker()
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := ctx.newManager(store)
			if err != nil {
				return err
			}

			bundles, err := manager.Bundles(cmd.Context())
			if err != nil {
				return err
			}
			report.NewRenderer(cmd.OutOrStdout()).Bundles(bundles)
			return nil
		},
	}
}
