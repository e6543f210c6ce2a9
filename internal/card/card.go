// Package card models generated quest and NPC cards and the areas that
// display them.
package card

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindQuest Kind = "quest"
	KindNPC   Kind = "npc"
)

var ErrUnknownKind = errors.New("unknown card kind")

// ParseKind accepts singular and plural forms ("npc", "npcs").
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "quest", "quests":
		return KindQuest, nil
	case "npc", "npcs":
		return KindNPC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

// Table is the remote table holding cards of this kind.
func (k Kind) Table() string {
	switch k {
	case KindQuest:
		return "quests"
	case KindNPC:
		return "npcs"
	default:
		return ""
	}
}

type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Lockable bool   `json:"lockable,omitempty"`
	// Inline fields render as a bare paragraph without their label.
	Inline bool `json:"inline,omitempty"`
}

type Card struct {
	ID        string   `json:"id"`
	Kind      Kind     `json:"kind"`
	Theme     string   `json:"theme"`
	Subtype   string   `json:"subtype,omitempty"`
	Title     string   `json:"title"`
	Fields    []Field  `json:"fields"`
	Tags      []string `json:"tags"`
	RemoteID  string   `json:"remote_id,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty"`
}

var (
	ErrUnknownField      = errors.New("unknown card field")
	ErrMalformedSnapshot = errors.New("malformed card snapshot")
)

func New(kind Kind, theme, title string, fields []Field) *Card {
	return &Card{
		ID:     uuid.NewString(),
		Kind:   kind,
		Theme:  theme,
		Title:  title,
		Fields: fields,
		Tags:   []string{},
	}
}

func (c *Card) Persisted() bool {
	return c.RemoteID != ""
}

func (c *Card) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// SetField replaces the displayed value of an editable row.
func (c *Card) SetField(key, value string) error {
	for i := range c.Fields {
		if c.Fields[i].Key == key {
			c.Fields[i].Value = strings.TrimSpace(value)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, key)
}

func (c *Card) SetTitle(title string) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		title = "Untitled"
	}
	c.Title = title
}

// ToggleCollapsed flips the body visibility and reports whether the body is
// now expanded.
func (c *Card) ToggleCollapsed() bool {
	c.Collapsed = !c.Collapsed
	return !c.Collapsed
}

func (c *Card) Clone() *Card {
	out := *c
	out.Fields = append([]Field(nil), c.Fields...)
	out.Tags = append([]string{}, c.Tags...)
	return &out
}

// Snapshot serializes the card so it can be rebuilt after removal.
func (c *Card) Snapshot() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("snapshotting card: %w", err)
	}
	return data, nil
}

func FromSnapshot(data []byte) (*Card, error) {
	var c Card
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if c.ID == "" || c.Kind.Table() == "" {
		return nil, fmt.Errorf("%w: missing id or kind", ErrMalformedSnapshot)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}
