package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"missiondeck/internal/topics"
)

func newTopicsCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Show the topic history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			missions, err := client.Missions(cmd.Context())
			if err != nil {
				return err
			}

			index := topics.BuildIndex(missions, "", showAll)
			out := cmd.OutOrStdout()
			if len(index.Entries) == 0 {
				fmt.Fprintln(out, "No topics yet.")
				return nil
			}
			for _, entry := range index.Entries {
				fmt.Fprintln(out, entry.Topic)
			}
			if index.HasMore && !showAll {
				fmt.Fprintln(out, "(older topics hidden; rerun with --all)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show the full history")
	return cmd
}
