package generate

import (
	"strings"

	"sidequest/internal/card"
	"sidequest/internal/locks"
	"sidequest/internal/random"
	"sidequest/internal/templates"
)

const listSeparator = ", "

// trait ties an NPC row to its pool, fallback and pick count.
type trait struct {
	key      string
	pool     func(p *templates.NpcParts) []string
	fallback string
	count    int
}

var npcTraits = []trait{
	{key: "race", pool: func(p *templates.NpcParts) []string { return p.Races }, fallback: "Human"},
	{key: "gender", pool: func(p *templates.NpcParts) []string { return p.Genders }, fallback: "Non-binary"},
	{key: "occupation", pool: func(p *templates.NpcParts) []string { return p.Occupations }, fallback: "Adventurer"},
	{key: "hair", pool: func(p *templates.NpcParts) []string { return p.Appearances.Hair }, fallback: "nondescript hair"},
	{key: "eyes", pool: func(p *templates.NpcParts) []string { return p.Appearances.Eyes }, fallback: "expressive eyes"},
	{key: "clothing", pool: func(p *templates.NpcParts) []string { return p.Appearances.Clothing }, fallback: "practical clothes"},
	{key: "features", pool: func(p *templates.NpcParts) []string { return p.Appearances.Features }, fallback: "a distinguishing scar", count: 2},
	{key: "personalityTraits", pool: func(p *templates.NpcParts) []string { return p.PersonalityTraits }, fallback: "Enigmatic", count: 3},
	{key: "voiceStyles", pool: func(p *templates.NpcParts) []string { return p.VoiceStyles }, fallback: "Soft-spoken"},
	{key: "motivations", pool: func(p *templates.NpcParts) []string { return p.Motivations }, fallback: "Seeks knowledge"},
	{key: "secrets", pool: func(p *templates.NpcParts) []string { return p.Secrets }, fallback: "Has a hidden past"},
	{key: "connections", pool: func(p *templates.NpcParts) []string { return p.Connections }, fallback: "Has a legendary mentor"},
	{key: "questHooks", pool: func(p *templates.NpcParts) []string { return p.QuestHooks }, fallback: "Needs help with a personal matter."},
}

const (
	fallbackFirstName = "Alex"
	fallbackLastName  = "Doe"
)

type NPC struct {
	sel   *random.Selector
	locks *locks.Registry
}

func NewNPC(sel *random.Selector, registry *locks.Registry) *NPC {
	return &NPC{sel: sel, locks: registry}
}

// Generate builds an NPC card for theme. Missing trait pools degrade to
// fallback strings; only a missing theme is an error.
func (g *NPC) Generate(set *templates.Set, theme string) (*card.Card, error) {
	if set == nil {
		return nil, ErrNotReady
	}
	parts, ok := set.NpcParts(theme)
	if !ok || parts == nil {
		return nil, &NotFoundError{Kind: "npc", Theme: theme}
	}

	first := g.locks.Resolve(g.sel, locks.FirstName, parts.FirstNames, fallbackFirstName)
	last := g.locks.Resolve(g.sel, locks.LastName, parts.LastNames, fallbackLastName)
	name := JoinName(first, last)

	values := map[string]string{card.NameKey: name}
	for _, t := range npcTraits {
		values[t.key] = g.locks.ResolveMany(g.sel, t.key, t.pool(parts), t.fallback, t.count, listSeparator)
	}

	return card.New(card.KindNPC, theme, name, card.Fields(card.KindNPC, values)), nil
}

func JoinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// SplitName splits a displayed name into first and last at the first space.
func SplitName(name string) (string, string) {
	name = strings.Join(strings.Fields(name), " ")
	first, last, _ := strings.Cut(name, " ")
	return first, last
}
