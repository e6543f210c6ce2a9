package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sidequest/internal/card"
	"sidequest/internal/exportfile"
)

func importCmd() *cobra.Command {
	var kindArg string
	var theme string
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Save cards from plain text exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, kindArg, theme)
		},
	}
	cmd.Flags().StringVar(&kindArg, "kind", "", "quest or npc (guessed from the rows when empty)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme recorded on imported cards")
	return cmd
}

func runImport(cmd *cobra.Command, paths []string, kindArg, theme string) error {
	ctx := context.Background()

	var forced card.Kind
	if kindArg != "" {
		kind, err := card.ParseKind(kindArg)
		if err != nil {
			return err
		}
		forced = kind
	}

	rt, err := loadRuntime(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	out := cmd.OutOrStdout()
	var failed int
	for _, path := range paths {
		doc, err := exportfile.ParseFile(path)
		if err != nil {
			fmt.Fprintf(out, "  - %v\n", err)
			failed++
			continue
		}
		kind := forced
		if kind == "" {
			kind = doc.GuessKind()
		}
		view, err := rt.app.Import(ctx, doc.Card(kind, theme))
		if err != nil {
			fmt.Fprintf(out, "  - %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "Imported %s as %s %s (%s)\n", path, kind, shortID(view.RemoteID), view.Title)
	}

	if failed > 0 {
		return fmt.Errorf("import completed with %d errors", failed)
	}
	return nil
}
