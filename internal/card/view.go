package card

import (
	"fmt"
	"strings"
)

const (
	IconLocked   = "🔒"
	IconUnlocked = "🔓"
)

// LockState answers lock questions for the renderer.
type LockState interface {
	IsLocked(key string) bool
	NameLocked() bool
}

// NameKey is the field key of the compound first+last name row.
const NameKey = "name"

type RowView struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Inline    bool   `json:"inline,omitempty"`
	Lockable  bool   `json:"lockable"`
	Locked    bool   `json:"locked"`
	LockIcon  string `json:"lock_icon,omitempty"`
	LockLabel string `json:"lock_label,omitempty"`
}

// View is the rendered form of a card: editable title, ordered rows with lock
// toggles, a tag area and the available controls.
type View struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Theme     string    `json:"theme"`
	Title     string    `json:"title"`
	Rows      []RowView `json:"rows"`
	Tags      []string  `json:"tags"`
	Controls  []string  `json:"controls"`
	Collapsed bool      `json:"collapsed"`
	Persisted bool      `json:"persisted"`
	RemoteID  string    `json:"remote_id,omitempty"`
}

// Render builds the view of c. locks may be nil for cards with no lockable
// rows.
func Render(c *Card, locks LockState) View {
	v := View{
		ID:        c.ID,
		Kind:      c.Kind,
		Theme:     c.Theme,
		Title:     c.Title,
		Rows:      make([]RowView, 0, len(c.Fields)),
		Tags:      append([]string{}, c.Tags...),
		Controls:  []string{"export", "collapse"},
		Collapsed: c.Collapsed,
		Persisted: c.Persisted(),
		RemoteID:  c.RemoteID,
	}
	if c.Persisted() {
		v.Controls = append(v.Controls, "delete")
	}

	for _, f := range c.Fields {
		row := RowView{
			Key:      f.Key,
			Label:    f.Label,
			Value:    f.Value,
			Inline:   f.Inline,
			Lockable: f.Lockable && locks != nil,
		}
		if row.Lockable {
			if f.Key == NameKey {
				row.Locked = locks.NameLocked()
				row.LockLabel = lockLabel(row.Locked, "name")
			} else {
				row.Locked = locks.IsLocked(f.Key)
				row.LockLabel = lockLabel(row.Locked, "trait")
			}
			row.LockIcon = IconUnlocked
			if row.Locked {
				row.LockIcon = IconLocked
			}
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func lockLabel(locked bool, what string) string {
	if locked {
		return "Unlock " + what
	}
	return "Lock " + what
}

// Text renders the view for a terminal.
func (v View) Text() string {
	var b strings.Builder
	toggle := "▼"
	if v.Collapsed {
		toggle = "▶"
	}
	fmt.Fprintf(&b, "%s %s", toggle, v.Title)
	if v.Theme != "" {
		fmt.Fprintf(&b, "  [%s]", v.Theme)
	}
	b.WriteString("\n")
	if !v.Collapsed {
		for _, row := range v.Rows {
			prefix := "  "
			if row.Lockable {
				prefix = row.LockIcon + " "
			}
			if row.Inline {
				fmt.Fprintf(&b, "%s%s\n", prefix, row.Value)
				continue
			}
			fmt.Fprintf(&b, "%s%s: %s\n", prefix, row.Label, row.Value)
		}
	}
	if len(v.Tags) > 0 {
		b.WriteString("  Tags:")
		for _, tag := range v.Tags {
			b.WriteString(" #" + tag)
		}
		b.WriteString("\n")
	}
	if v.Persisted {
		fmt.Fprintf(&b, "  id: %s\n", v.RemoteID)
	}
	return b.String()
}
