package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sidequest/internal/card"
)

type generateOptions struct {
	theme     string
	questType string
	locks     []string
	tags      []string
	save      bool
	exportDir string
	asJSON    bool
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a side quest or an NPC",
	}
	cmd.AddCommand(generateQuestCmd())
	cmd.AddCommand(generateNPCCmd())
	return cmd
}

func generateQuestCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Generate a side quest card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, card.KindQuest, opts)
		},
	}
	addGenerateFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.questType, "type", "any", "Quest type, or any")
	return cmd
}

func generateNPCCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "npc",
		Short: "Generate an NPC card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, card.KindNPC, opts)
		},
	}
	addGenerateFlags(cmd, &opts)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Theme (defaults to the preferred generator theme)")
	cmd.Flags().StringArrayVar(&opts.locks, "lock", nil, "Pin a trait as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "Tag to add (repeatable)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the card for the configured identity")
	cmd.Flags().StringVar(&opts.exportDir, "export", "", "Write a plain text export into this directory")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the card as JSON")
}

func runGenerate(cmd *cobra.Command, kind card.Kind, opts generateOptions) error {
	ctx := context.Background()

	rt, err := loadRuntime(ctx, opts.save)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	for _, lock := range opts.locks {
		key, value, ok := strings.Cut(lock, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid --lock %q, want key=value", lock)
		}
		if err := rt.app.LockValue(kind, strings.TrimSpace(key), value); err != nil {
			return err
		}
	}

	var view card.View
	if kind == card.KindNPC {
		view, err = rt.app.GenerateNPC(opts.theme)
	} else {
		view, err = rt.app.GenerateQuest(opts.theme, opts.questType)
	}
	if err != nil {
		return err
	}

	for _, tag := range opts.tags {
		if view, err = rt.app.AddTag(ctx, view.ID, tag); err != nil {
			return err
		}
	}
	if opts.save {
		if view, err = rt.app.Save(ctx, view.ID); err != nil {
			return err
		}
	}
	if opts.exportDir != "" {
		path, err := exportCard(rt, view.ID, opts.exportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %s\n", path)
	}

	return printView(cmd, view, opts.asJSON)
}

func exportCard(rt *runtime, cardID, dir string) (string, error) {
	name, content, err := rt.app.Export(cardID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func printView(cmd *cobra.Command, view card.View, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	fmt.Fprint(out, view.Text())
	return nil
}
