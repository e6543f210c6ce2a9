package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sidequest/internal/card"
)

func savedTagCmd() *cobra.Command {
	var add []string
	var remove []string
	cmd := &cobra.Command{
		Use:   "tag <quests|npcs> <id>",
		Short: "Add or remove tags on a saved card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(add) == 0 && len(remove) == 0 {
				return fmt.Errorf("--add or --remove is required")
			}
			return runSavedTag(cmd, args[0], args[1], add, remove)
		},
	}
	cmd.Flags().StringArrayVar(&add, "add", nil, "Tag to add (repeatable)")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "Tag to remove (repeatable)")
	return cmd
}

func runSavedTag(cmd *cobra.Command, kindArg, id string, add, remove []string) error {
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

	view, err := findSaved(ctx, rt.app, kind, id)
	if err != nil {
		return err
	}
	for _, tag := range remove {
		if view, err = rt.app.RemoveTag(ctx, view.ID, tag); err != nil {
			return err
		}
	}
	for _, tag := range add {
		if view, err = rt.app.AddTag(ctx, view.ID, tag); err != nil {
			return err
		}
	}
	return printView(cmd, view, false)
}
