package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sidequest/internal/card"
)

func savedListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list <quests|npcs>",
		Short: "List saved cards, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedList(cmd, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print cards as JSON")
	return cmd
}

func runSavedList(cmd *cobra.Command, kindArg string, asJSON bool) error {
	ctx := context.Background()

	kind, err := card.ParseKind(kindArg)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	views, err := rt.app.LoadSaved(ctx, kind)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved cards.")
		return nil
	}
	for _, view := range views {
		if err := printView(cmd, view, asJSON); err != nil {
			return err
		}
		if !asJSON {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}
