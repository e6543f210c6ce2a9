package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display and generator preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between the dark and light display",
		Args:  cobra.NoArgs,
		RunE:  runPrefsToggle,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "theme <name>",
		Short: "Set the default generator theme",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrefsTheme,
	})
	return cmd
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := loadRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	p := rt.app.Preferences()
	fmt.Fprintf(cmd.OutOrStdout(), "display: %s\ngenerator theme: %s\n", p.Theme, p.GeneratorTheme)
	return nil
}

func runPrefsToggle(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := loadRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	display, err := rt.app.ToggleDisplay()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "display: %s\n", display)
	return nil
}

func runPrefsTheme(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := loadRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	if err := rt.app.SetGeneratorTheme(args[0]); err != nil {
		return fmt.Errorf("%w (available: %v)", err, rt.app.Themes())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generator theme: %s\n", args[0])
	return nil
}
