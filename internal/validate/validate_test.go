package validate

import (
	"context"
	"testing"

	"sidequest/internal/templates"
)

func loadSet(t *testing.T, quests, npcs string) *templates.Set {
	t.Helper()
	set, err := templates.Parse("quests.json", []byte(quests), "npcs.json", []byte(npcs))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return set
}

func hasIssue(report *Report, code, theme string) bool {
	for _, issue := range report.Issues {
		if issue.Code == code && issue.Theme == theme {
			return true
		}
	}
	return false
}

func TestRun_RequiresSet(t *testing.T) {
	if _, err := Run(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_TestdataIsClean(t *testing.T) {
	set, err := templates.Load(context.Background(), "../templates/testdata/quests.json", "../templates/testdata/npcs.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	report, err := Run(set)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %+v", report.Issues)
	}
	if hasIssue(report, codeEmptyPool, "fantasy") {
		t.Fatalf("fantasy pools are complete: %+v", report.Issues)
	}
	if !hasIssue(report, codeEmptyPool, "scifi") {
		t.Fatalf("expected empty pool warnings for sparse scifi npcs")
	}
}

func TestRun_Issues(t *testing.T) {
	quests := `{
  "questTypes": {
    "fantasy": {
      "rescue": {
        "locations": ["the mill"],
        "rewards": [],
        "descriptions": ["Save the miller at {location} from {villain}.", "Just go."]
      }
    },
    "horror": {}
  },
  "enemies": {"horror": ["a ghoul"]}
}`
	npcs := `{"npcParts": {"fantasy": {"firstNames": ["Ana"]}}}`
	report, err := Run(loadSet(t, quests, npcs))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	tests := []struct {
		code  string
		theme string
	}{
		{codeNoQuestTypes, "horror"},
		{codeNoEnemies, "fantasy"},
		{codeEmptyPool, "fantasy"},
		{codeUnknownPlaceholder, "fantasy"},
		{codeNoPlaceholders, "fantasy"},
		{codeMissingNpcParts, "horror"},
	}
	for _, tt := range tests {
		if !hasIssue(report, tt.code, tt.theme) {
			t.Errorf("expected %s for %s in %+v", tt.code, tt.theme, report.Issues)
		}
	}
	if !report.HasErrors() {
		t.Fatalf("expected an error severity issue")
	}
	if errs, warns := report.Counts(); errs != 1 || warns == 0 {
		t.Fatalf("Counts() = %d, %d", errs, warns)
	}
}

func TestRun_ReportsNormalization(t *testing.T) {
	quests := `{"questTypes": {"rescue": {"locations": ["a"], "rewards": ["b"], "descriptions": ["{location} {enemy}"]}}, "challenges": ["wolves"]}`
	npcs := `{"npcParts": {"firstNames": ["Ana"]}}`
	report, err := Run(loadSet(t, quests, npcs))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	found := false
	for _, issue := range report.Issues {
		if issue.Code == codeNormalizationPrefix+"unthemed_quest_types" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected normalization warning, got %+v", report.Issues)
	}
}
