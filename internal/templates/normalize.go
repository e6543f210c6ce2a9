package templates

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	codeUnthemedQuestTypes = "unthemed_quest_types"
	codeUnthemedEnemies    = "unthemed_enemies"
	codeEnemyAlias         = "enemy_field_alias"
	codeTypeScopedEnemies  = "type_scoped_enemies"
	codeEnemiesNoTheme     = "enemies_unknown_theme"
	codeDescriptionAlias   = "description_field_alias"
	codeUnthemedNpcParts   = "unthemed_npc_parts"
)

// enemyFields are the names the enemy pool has gone by.
var enemyFields = []string{"enemies", "challenges", "threats"}

var questTypeFields = []string{"locations", "rewards", "descriptions", "descriptionTemplates"}

var npcPartFields = []string{
	"firstNames", "lastNames", "races", "genders", "occupations",
	"personalityTraits", "voiceStyles", "motivations", "secrets",
	"connections", "questHooks", "appearances",
}

func decodeDocument(name string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: empty document", ErrInvalidDocument, name)
	}
	return doc, nil
}

func normalizeQuests(source string, doc map[string]any) (map[string]*QuestTheme, []Diagnostic, error) {
	var diags []Diagnostic
	note := func(code, format string, args ...any) {
		diags = append(diags, Diagnostic{Source: source, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	rawTypes, ok := doc["questTypes"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s: questTypes must be a map", ErrInvalidDocument, source)
	}
	if typesAreUnthemed(rawTypes) {
		note(codeUnthemedQuestTypes, "questTypes has no theme level; placed under %q", DefaultTheme)
		rawTypes = map[string]any{DefaultTheme: rawTypes}
	}

	themes := make(map[string]*QuestTheme, len(rawTypes))
	for _, theme := range sortedKeys(rawTypes) {
		typeTable, ok := rawTypes[theme].(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s: questTypes.%s must be a map", ErrInvalidDocument, source, theme)
		}
		qt := &QuestTheme{Types: make(map[string]*QuestType, len(typeTable))}
		for _, typeName := range sortedKeys(typeTable) {
			raw, ok := typeTable[typeName].(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s: questTypes.%s.%s must be a map", ErrInvalidDocument, source, theme, typeName)
			}
			path := "questTypes." + theme + "." + typeName
			questType, err := parseQuestType(path, raw)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, source, err)
			}
			if _, ok := raw["descriptions"]; !ok {
				if _, alias := raw["descriptionTemplates"]; alias {
					note(codeDescriptionAlias, "%s uses descriptionTemplates; read as descriptions", path)
				}
			}
			for _, field := range enemyFields {
				value, present := raw[field]
				if !present {
					continue
				}
				list, err := stringList(path+"."+field, value)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, source, err)
				}
				note(codeTypeScopedEnemies, "%s.%s merged into the %q theme enemy pool", path, field, theme)
				qt.Enemies = appendUnique(qt.Enemies, list...)
			}
			qt.Types[typeName] = questType
		}
		themes[theme] = qt
	}

	for _, field := range enemyFields {
		value, present := doc[field]
		if !present || value == nil {
			continue
		}
		if field != "enemies" {
			note(codeEnemyAlias, "top-level %q read as enemies", field)
		}
		switch v := value.(type) {
		case map[string]any:
			for _, theme := range sortedKeys(v) {
				list, err := stringList(field+"."+theme, v[theme])
				if err != nil {
					return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, source, err)
				}
				qt, ok := themes[theme]
				if !ok {
					note(codeEnemiesNoTheme, "%s.%s has no matching quest theme; ignored", field, theme)
					continue
				}
				qt.Enemies = appendUnique(list, qt.Enemies...)
			}
		case []any:
			list, err := stringList(field, v)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, source, err)
			}
			note(codeUnthemedEnemies, "top-level %s list applied to every theme", field)
			for _, theme := range sortedKeys(themes) {
				themes[theme].Enemies = appendUnique(list, themes[theme].Enemies...)
			}
		default:
			return nil, nil, fmt.Errorf("%w: %s: %s must be a map or a list", ErrInvalidDocument, source, field)
		}
	}

	return themes, diags, nil
}

func parseQuestType(path string, raw map[string]any) (*QuestType, error) {
	var err error
	qt := &QuestType{}
	if qt.Locations, err = stringList(path+".locations", raw["locations"]); err != nil {
		return nil, err
	}
	if qt.Rewards, err = stringList(path+".rewards", raw["rewards"]); err != nil {
		return nil, err
	}
	descriptions, ok := raw["descriptions"]
	if !ok {
		descriptions = raw["descriptionTemplates"]
	}
	if qt.Descriptions, err = stringList(path+".descriptions", descriptions); err != nil {
		return nil, err
	}
	return qt, nil
}

func normalizeNPCs(source string, doc map[string]any, questThemes []string) (map[string]*NpcParts, []Diagnostic, error) {
	var diags []Diagnostic

	raw, ok := doc["npcParts"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s: npcParts must be a map", ErrInvalidDocument, source)
	}

	out := make(map[string]*NpcParts)
	if hasAnyKey(raw, npcPartFields) {
		parts, err := parseNpcParts("npcParts", raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, source, err)
		}
		targets := questThemes
		if len(targets) == 0 {
			targets = []string{DefaultTheme}
		}
		diags = append(diags, Diagnostic{
			Source:  source,
			Code:    codeUnthemedNpcParts,
			Message: fmt.Sprintf("npcParts has no theme level; applied to %s", strings.Join(targets, ", ")),
		})
		for _, theme := range targets {
			out[theme] = parts
		}
		return out, diags, nil
	}

	for _, theme := range sortedKeys(raw) {
		m, ok := raw[theme].(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s: npcParts.%s must be a map", ErrInvalidDocument, source, theme)
		}
		parts, err := parseNpcParts("npcParts."+theme, m)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, source, err)
		}
		out[theme] = parts
	}
	return out, diags, nil
}

func parseNpcParts(path string, m map[string]any) (*NpcParts, error) {
	p := &NpcParts{}
	lists := []struct {
		key  string
		dest *[]string
	}{
		{"firstNames", &p.FirstNames},
		{"lastNames", &p.LastNames},
		{"races", &p.Races},
		{"genders", &p.Genders},
		{"occupations", &p.Occupations},
		{"personalityTraits", &p.PersonalityTraits},
		{"voiceStyles", &p.VoiceStyles},
		{"motivations", &p.Motivations},
		{"secrets", &p.Secrets},
		{"connections", &p.Connections},
		{"questHooks", &p.QuestHooks},
	}
	for _, item := range lists {
		list, err := stringList(path+"."+item.key, m[item.key])
		if err != nil {
			return nil, err
		}
		*item.dest = list
	}

	rawAppearance, present := m["appearances"]
	if !present || rawAppearance == nil {
		return p, nil
	}
	appearance, ok := rawAppearance.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s.appearances must be a map", path)
	}
	appearanceLists := []struct {
		key  string
		dest *[]string
	}{
		{"hair", &p.Appearances.Hair},
		{"eyes", &p.Appearances.Eyes},
		{"clothing", &p.Appearances.Clothing},
		{"features", &p.Appearances.Features},
	}
	for _, item := range appearanceLists {
		list, err := stringList(path+".appearances."+item.key, appearance[item.key])
		if err != nil {
			return nil, err
		}
		*item.dest = list
	}
	return p, nil
}

// stringList accepts an absent value (nil result) or a list of strings.
func stringList(path string, value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list of strings", path)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", path, i)
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// typesAreUnthemed reports whether questTypes maps type names straight to
// type data, skipping the theme level.
func typesAreUnthemed(rawTypes map[string]any) bool {
	for _, v := range rawTypes {
		if child, ok := v.(map[string]any); ok && hasAnyKey(child, questTypeFields) {
			return true
		}
	}
	return false
}

func hasAnyKey(m map[string]any, keys []string) bool {
	for _, key := range keys {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

// appendUnique appends values not already in list, preserving order.
func appendUnique(list []string, values ...string) []string {
	seen := make(map[string]struct{}, len(list)+len(values))
	out := make([]string, 0, len(list)+len(values))
	for _, item := range append(append([]string(nil), list...), values...) {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
