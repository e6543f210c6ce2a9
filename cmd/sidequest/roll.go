package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sidequest/internal/app"
	"sidequest/internal/dice"
)

func rollCmd() *cobra.Command {
	var sides int
	var count int
	cmd := &cobra.Command{
		Use:   "roll [NdS]",
		Short: "Roll dice, e.g. roll 3d6 or roll --sides 20",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.New(app.Options{})
			var (
				roll dice.Roll
				err  error
			)
			if len(args) == 1 {
				roll, err = session.RollNotation(args[0])
			} else {
				roll, err = session.Roll(sides, count)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (total %d)\n", roll.Label(), roll, roll.Total())
			return nil
		},
	}
	cmd.Flags().IntVar(&sides, "sides", 20, "Faces per die")
	cmd.Flags().IntVar(&count, "count", 1, fmt.Sprintf("Number of dice (%d-%d)", dice.MinCount, dice.MaxCount))
	return cmd
}
