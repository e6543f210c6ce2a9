package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed sample/quests.json sample/npcs.json
var sampleData embed.FS

func initCmd() *cobra.Command {
	var projectName string
	var dataDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new sidequest project with sample template data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(cmd, projectName, dataDir)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dataDir, "data", "data", "Directory for the template documents")
	return cmd
}

func runInit(cmd *cobra.Command, projectName, dataDir string) error {
	questsPath := filepath.Join(dataDir, "quests.json")
	npcsPath := filepath.Join(dataDir, "npcs.json")
	for _, path := range []string{configPath, questsPath, npcsPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dataDir, err)
	}
	for src, dst := range map[string]string{"sample/quests.json": questsPath, "sample/npcs.json": npcsPath} {
		contents, err := sampleData.ReadFile(src)
		if err != nil {
			return fmt.Errorf("reading sample %s: %w", src, err)
		}
		if err := os.WriteFile(dst, contents, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
	}

	configContents := fmt.Sprintf(`project: %s
version: 1

# Leave empty to keep saving disabled; SIDEQUEST_IDENTITY overrides it.
identity: ""

database:
  dsn: sqlite://./sidequest.db

data:
  quests: %s
  npcs: %s

undo:
  grace_window: 10s

gateway:
  timeout: 15s

preferences:
  path: .sidequest-prefs.yaml

http:
  addr: ":8080"
  allowed_origins:
    - http://localhost:5173

log:
  mode: development
`, projectName, filepath.ToSlash(questsPath), filepath.ToSlash(npcsPath))
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	cmd.Printf("Created %s, %s and %s.\n", configPath, questsPath, npcsPath)
	return nil
}
