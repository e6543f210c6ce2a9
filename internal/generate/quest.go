// Package generate composes quest and NPC cards from template data.
package generate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sidequest/internal/card"
	"sidequest/internal/locks"
	"sidequest/internal/random"
	"sidequest/internal/templates"
)

// AnyType asks the quest generator to pick a type at random.
const AnyType = "any"

const (
	fallbackLocation    = "an unknown place"
	fallbackEnemy       = "a mysterious foe"
	fallbackReward      = "a sense of accomplishment"
	fallbackDescription = "A task awaits at {location} involving {enemy}."
)

const (
	placeholderLocation = "{location}"
	placeholderEnemy    = "{enemy}"
)

type Quest struct {
	sel   *random.Selector
	locks *locks.Registry
}

func NewQuest(sel *random.Selector, registry *locks.Registry) *Quest {
	return &Quest{sel: sel, locks: registry}
}

// Generate builds a quest card for theme and questType. questType may be
// AnyType. A nil set reports ErrNotReady.
func (g *Quest) Generate(set *templates.Set, theme, questType string) (*card.Card, error) {
	if set == nil {
		return nil, ErrNotReady
	}
	themeData, ok := set.QuestTheme(theme)
	if !ok {
		return nil, &NotFoundError{Kind: "quest", Theme: theme}
	}

	if questType == "" || questType == AnyType {
		picked, ok := g.sel.PickOne(set.QuestTypes(theme))
		if !ok {
			return nil, &NotFoundError{Kind: "quest", Theme: theme, Type: AnyType}
		}
		questType = picked
	}
	typeData, ok := themeData.Types[questType]
	if !ok || typeData == nil {
		return nil, &NotFoundError{Kind: "quest", Theme: theme, Type: questType}
	}

	description, locked := g.locks.Value(card.KeyDescription)
	if !locked {
		location := g.locks.Resolve(g.sel, "location", typeData.Locations, fallbackLocation)
		enemy := g.locks.Resolve(g.sel, "enemy", themeData.Enemies, fallbackEnemy)
		template := g.locks.Resolve(g.sel, "template", typeData.Descriptions, fallbackDescription)
		description = Fill(template, location, enemy)
	}
	reward := g.locks.Resolve(g.sel, card.KeyReward, typeData.Rewards, fallbackReward)

	c := card.New(card.KindQuest, theme, QuestTitle(questType), card.Fields(card.KindQuest, map[string]string{
		card.KeyDescription: description,
		card.KeyReward:      reward,
	}))
	c.Subtype = questType
	return c, nil
}

// Fill substitutes every {location} and {enemy} placeholder.
func Fill(template, location, enemy string) string {
	r := strings.NewReplacer(placeholderLocation, location, placeholderEnemy, enemy)
	return r.Replace(template)
}

// QuestTitle derives a card title from a quest type key.
func QuestTitle(questType string) string {
	return Capitalize(questType) + " Quest"
}

// Capitalize upper-cases the first letter only; the rest is kept as typed.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.English).String(string(r)) + s[size:]
}
