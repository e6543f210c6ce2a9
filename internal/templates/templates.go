// Package templates loads the quest and NPC generation data and normalizes
// it into one canonical shape.
package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultTheme receives un-themed legacy documents.
const DefaultTheme = "fantasy"

var ErrInvalidDocument = errors.New("invalid template document")

type QuestType struct {
	Locations    []string `json:"locations" yaml:"locations"`
	Rewards      []string `json:"rewards" yaml:"rewards"`
	Descriptions []string `json:"descriptions" yaml:"descriptions"`
}

type QuestTheme struct {
	Types map[string]*QuestType `json:"types" yaml:"types"`
	// Enemies is shared by every quest type of the theme.
	Enemies []string `json:"enemies" yaml:"enemies"`
}

type Appearances struct {
	Hair     []string `json:"hair" yaml:"hair"`
	Eyes     []string `json:"eyes" yaml:"eyes"`
	Clothing []string `json:"clothing" yaml:"clothing"`
	Features []string `json:"features" yaml:"features"`
}

type NpcParts struct {
	FirstNames        []string    `json:"firstNames" yaml:"firstNames"`
	LastNames         []string    `json:"lastNames" yaml:"lastNames"`
	Races             []string    `json:"races" yaml:"races"`
	Genders           []string    `json:"genders" yaml:"genders"`
	Occupations       []string    `json:"occupations" yaml:"occupations"`
	PersonalityTraits []string    `json:"personalityTraits" yaml:"personalityTraits"`
	VoiceStyles       []string    `json:"voiceStyles" yaml:"voiceStyles"`
	Motivations       []string    `json:"motivations" yaml:"motivations"`
	Secrets           []string    `json:"secrets" yaml:"secrets"`
	Connections       []string    `json:"connections" yaml:"connections"`
	QuestHooks        []string    `json:"questHooks" yaml:"questHooks"`
	Appearances       Appearances `json:"appearances" yaml:"appearances"`
}

// Diagnostic records a coercion applied while normalizing a document.
type Diagnostic struct {
	Source  string
	Code    string
	Message string
}

type Set struct {
	quests      map[string]*QuestTheme
	npcs        map[string]*NpcParts
	Diagnostics []Diagnostic
}

// Load fetches both documents concurrently and normalizes them. Sources are
// file paths or http(s) URLs.
func Load(ctx context.Context, questSource, npcSource string) (*Set, error) {
	var questData, npcData []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := readSource(gctx, questSource)
		questData = data
		return err
	})
	g.Go(func() error {
		data, err := readSource(gctx, npcSource)
		npcData = data
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	set, err := Parse(questSource, questData, npcSource, npcData)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return set, nil
}

// Parse normalizes already-fetched documents. The names select the decoder
// (.yaml/.yml or JSON) and label diagnostics.
func Parse(questName string, questData []byte, npcName string, npcData []byte) (*Set, error) {
	questDoc, err := decodeDocument(questName, questData)
	if err != nil {
		return nil, err
	}
	npcDoc, err := decodeDocument(npcName, npcData)
	if err != nil {
		return nil, err
	}

	quests, questDiags, err := normalizeQuests(questName, questDoc)
	if err != nil {
		return nil, err
	}

	themes := make([]string, 0, len(quests))
	for theme := range quests {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	npcs, npcDiags, err := normalizeNPCs(npcName, npcDoc, themes)
	if err != nil {
		return nil, err
	}

	return &Set{
		quests:      quests,
		npcs:        npcs,
		Diagnostics: append(questDiags, npcDiags...),
	}, nil
}

func readSource(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fetching %s: HTTP status %d", source, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

// Themes lists the quest themes in sorted order.
func (s *Set) Themes() []string {
	return sortedKeys(s.quests)
}

func (s *Set) HasTheme(theme string) bool {
	_, ok := s.quests[theme]
	return ok
}

// QuestTypes lists the quest types of theme in sorted order.
func (s *Set) QuestTypes(theme string) []string {
	qt, ok := s.quests[theme]
	if !ok {
		return nil
	}
	return sortedKeys(qt.Types)
}

func (s *Set) QuestTheme(theme string) (*QuestTheme, bool) {
	qt, ok := s.quests[theme]
	return qt, ok
}

func (s *Set) NpcParts(theme string) (*NpcParts, bool) {
	p, ok := s.npcs[theme]
	return p, ok
}

func (s *Set) NpcThemes() []string {
	return sortedKeys(s.npcs)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
