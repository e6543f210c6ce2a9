package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sidequest/internal/card"
)

func savedSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <quests|npcs> <text>",
		Short: "Search saved cards using the full-text index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedSearch(cmd, args[0], strings.Join(args[1:], " "))
		},
	}
	return cmd
}

func runSavedSearch(cmd *cobra.Command, kindArg, query string) error {
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

	hits, err := rt.app.Search(ctx, kind, query)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}

	for _, hit := range hits {
		fmt.Fprintf(out, "%s  %s  score=%.2f\n", shortID(hit.Card.RemoteID), hit.Card.Title, hit.Score)
		if hit.Snippet != "" {
			fmt.Fprintf(out, "    %s\n", hit.Snippet)
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
