package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sidequest/internal/app"
	"sidequest/internal/card"
)

func savedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Work with saved quests and NPCs",
	}
	cmd.AddCommand(savedListCmd())
	cmd.AddCommand(savedDeleteCmd())
	cmd.AddCommand(savedTagCmd())
	cmd.AddCommand(savedSearchCmd())
	return cmd
}

// findSaved loads the saved board for kind and returns the card whose remote
// id equals or starts with id.
func findSaved(ctx context.Context, a *app.App, kind card.Kind, id string) (card.View, error) {
	views, err := a.LoadSaved(ctx, kind)
	if err != nil {
		return card.View{}, err
	}
	var matches []card.View
	for _, v := range views {
		if v.RemoteID == id {
			return v, nil
		}
		if strings.HasPrefix(v.RemoteID, id) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 0:
		return card.View{}, fmt.Errorf("%w: no saved %s with id %s", app.ErrCardMissing, kind, id)
	case 1:
		return matches[0], nil
	default:
		return card.View{}, fmt.Errorf("id prefix %s matches %d saved cards", id, len(matches))
	}
}
