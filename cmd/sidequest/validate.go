package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sidequest/internal/config"
	"sidequest/internal/templates"
	"sidequest/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the template documents for gaps and inconsistencies",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	set, err := templates.Load(ctx, cfg.Data.Quests, cfg.Data.NPCs)
	if err != nil {
		return err
	}

	report, err := validate.Run(set)
	if err != nil {
		return err
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	out := cmd.OutOrStdout()
	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Theme
		if issue.Type != "" {
			location = fmt.Sprintf("%s/%s", issue.Theme, issue.Type)
		}
		if location == "" {
			location = "(document)"
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
