// Package validate checks loaded template data for gaps that would make the
// generators fall back to placeholder text or fail outright.
package validate

import (
	"fmt"
	"regexp"
	"slices"

	"sidequest/internal/templates"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeNoQuestTypes        = "no_quest_types"
	codeEmptyPool           = "empty_pool"
	codeNoEnemies           = "no_enemies"
	codeMissingNpcParts     = "missing_npc_parts"
	codeUnknownPlaceholder  = "unknown_placeholder"
	codeNoPlaceholders      = "no_placeholders"
	codeNormalizationPrefix = "normalized_"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}\s]+)\}`)

var knownPlaceholders = []string{"location", "enemy"}

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Theme    string
	Type     string
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errors, warnings int) {
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarn:
			warnings++
		}
	}
	return errors, warnings
}

func Run(set *templates.Set) (*Report, error) {
	if set == nil {
		return nil, fmt.Errorf("template set is required")
	}

	issues := make([]Issue, 0)
	for _, d := range set.Diagnostics {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeNormalizationPrefix + d.Code,
			Message:  fmt.Sprintf("%s: %s", d.Source, d.Message),
		})
	}

	for _, theme := range set.Themes() {
		qt, _ := set.QuestTheme(theme)
		issues = append(issues, validateQuestTheme(theme, qt)...)
		parts, ok := set.NpcParts(theme)
		if !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeMissingNpcParts,
				Message:  "no NPC trait pools for quest theme; NPC generation will report not found",
				Theme:    theme,
			})
			continue
		}
		issues = append(issues, validateNpcParts(theme, parts)...)
	}

	return &Report{Issues: issues}, nil
}

func validateQuestTheme(theme string, qt *templates.QuestTheme) []Issue {
	var issues []Issue
	if qt == nil || len(qt.Types) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Code:     codeNoQuestTypes,
			Message:  "theme has no quest types",
			Theme:    theme,
		})
	}
	if len(qt.Enemies) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeNoEnemies,
			Message:  "theme has no enemies; quests will use the fallback foe",
			Theme:    theme,
		})
	}

	types := make([]string, 0, len(qt.Types))
	for name := range qt.Types {
		types = append(types, name)
	}
	slices.Sort(types)

	for _, name := range types {
		typeData := qt.Types[name]
		if typeData == nil {
			typeData = &templates.QuestType{}
		}
		for _, pool := range []struct {
			name   string
			values []string
		}{
			{"locations", typeData.Locations},
			{"rewards", typeData.Rewards},
			{"descriptions", typeData.Descriptions},
		} {
			if len(pool.values) == 0 {
				issues = append(issues, emptyPool(theme, name, pool.name))
			}
		}
		for _, desc := range typeData.Descriptions {
			issues = append(issues, validateDescription(theme, name, desc)...)
		}
	}
	return issues
}

func validateDescription(theme, questType, desc string) []Issue {
	matches := placeholderPattern.FindAllStringSubmatch(desc, -1)
	if len(matches) == 0 {
		return []Issue{{
			Severity: SeverityWarn,
			Code:     codeNoPlaceholders,
			Message:  fmt.Sprintf("description has no {location} or {enemy}: %q", desc),
			Theme:    theme,
			Type:     questType,
		}}
	}
	var issues []Issue
	for _, m := range matches {
		if !slices.Contains(knownPlaceholders, m[1]) {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownPlaceholder,
				Message:  fmt.Sprintf("unknown placeholder %s will be left as is", m[0]),
				Theme:    theme,
				Type:     questType,
			})
		}
	}
	return issues
}

func validateNpcParts(theme string, parts *templates.NpcParts) []Issue {
	pools := []struct {
		name   string
		values []string
	}{
		{"firstNames", parts.FirstNames},
		{"lastNames", parts.LastNames},
		{"races", parts.Races},
		{"genders", parts.Genders},
		{"occupations", parts.Occupations},
		{"personalityTraits", parts.PersonalityTraits},
		{"voiceStyles", parts.VoiceStyles},
		{"motivations", parts.Motivations},
		{"secrets", parts.Secrets},
		{"connections", parts.Connections},
		{"questHooks", parts.QuestHooks},
		{"appearances.hair", parts.Appearances.Hair},
		{"appearances.eyes", parts.Appearances.Eyes},
		{"appearances.clothing", parts.Appearances.Clothing},
		{"appearances.features", parts.Appearances.Features},
	}
	var issues []Issue
	for _, pool := range pools {
		if len(pool.values) == 0 {
			issues = append(issues, emptyPool(theme, "", pool.name))
		}
	}
	return issues
}

func emptyPool(theme, questType, pool string) Issue {
	return Issue{
		Severity: SeverityWarn,
		Code:     codeEmptyPool,
		Message:  fmt.Sprintf("%s is empty; generation will use its fallback", pool),
		Theme:    theme,
		Type:     questType,
	}
}
