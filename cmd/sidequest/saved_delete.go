package main

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sidequest/internal/app"
	"sidequest/internal/card"
)

func savedDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <quests|npcs> <id>",
		Short: "Delete a saved card, with an undo window unless --yes is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedDelete(cmd, args[0], args[1], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete at once without the undo window")
	return cmd
}

func runSavedDelete(cmd *cobra.Command, kindArg, id string, yes bool) error {
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
	outcome, err := rt.app.Delete(view.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outcome.Immediate {
		fmt.Fprintf(out, "Deleted %q.\n", view.Title)
		return nil
	}
	if yes {
		if err := rt.app.ConfirmDelete(ctx, view.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %q.\n", view.Title)
		return nil
	}

	fmt.Fprintf(out, "Deleting %q. Press Enter within %s to undo.\n", view.Title, rt.cfg.Undo.GraceWindow)
	undoRequested := make(chan struct{}, 1)
	go func() {
		if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err == nil {
			undoRequested <- struct{}{}
		}
	}()

	select {
	case <-undoRequested:
		if _, err := rt.app.UndoCard(view.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Restored %q.\n", view.Title)
		return nil
	case <-time.After(time.Until(outcome.Pending.Deadline)):
	}

	// The grace timer commits on its own; Close waits for it.
	if err := rt.app.Close(ctx); err != nil {
		return err
	}
	for _, n := range rt.app.Notices() {
		if n.Level == app.LevelError {
			return fmt.Errorf("%s", n.Message)
		}
	}
	fmt.Fprintf(out, "Deleted %q.\n", view.Title)
	return nil
}
