package card

import "strings"

// FieldSpec describes one row of a card layout.
type FieldSpec struct {
	Key      string
	Label    string
	Lockable bool
	Inline   bool
}

// Row keys shared by generators and the persisted body format.
const (
	KeyDescription = "description"
	KeyReward      = "reward"
)

var QuestLayout = []FieldSpec{
	{Key: KeyDescription, Label: "Description", Lockable: true, Inline: true},
	{Key: KeyReward, Label: "Reward", Lockable: true},
}

var NPCLayout = []FieldSpec{
	{Key: NameKey, Label: "Name", Lockable: true},
	{Key: "race", Label: "Race", Lockable: true},
	{Key: "gender", Label: "Gender", Lockable: true},
	{Key: "occupation", Label: "Occupation", Lockable: true},
	{Key: "hair", Label: "Hair", Lockable: true},
	{Key: "eyes", Label: "Eyes", Lockable: true},
	{Key: "clothing", Label: "Clothing", Lockable: true},
	{Key: "features", Label: "Features", Lockable: true},
	{Key: "personalityTraits", Label: "Personality", Lockable: true},
	{Key: "voiceStyles", Label: "Voice Style", Lockable: true},
	{Key: "motivations", Label: "Motivation", Lockable: true},
	{Key: "secrets", Label: "Secret", Lockable: true},
	{Key: "connections", Label: "Connections", Lockable: true},
	{Key: "questHooks", Label: "Quest Hook", Lockable: true},
}

func Layout(kind Kind) []FieldSpec {
	switch kind {
	case KindQuest:
		return QuestLayout
	case KindNPC:
		return NPCLayout
	default:
		return nil
	}
}

// Fields pairs values (by key) with the layout of kind, in layout order.
func Fields(kind Kind, values map[string]string) []Field {
	layout := Layout(kind)
	out := make([]Field, 0, len(layout))
	for _, def := range layout {
		out = append(out, Field{
			Key:      def.Key,
			Label:    def.Label,
			Value:    values[def.Key],
			Lockable: def.Lockable,
			Inline:   def.Inline,
		})
	}
	return out
}

// BodyLines renders one line per field: inline fields bare, others as
// "Label: Value".
func (c *Card) BodyLines() []string {
	lines := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Inline {
			lines = append(lines, f.Value)
			continue
		}
		lines = append(lines, f.Label+": "+f.Value)
	}
	return lines
}

// Body is the persisted body content of the card.
func (c *Card) Body() string {
	return strings.Join(c.BodyLines(), "\n")
}

// ParseBody rebuilds fields from body lines. Lines whose label matches the
// layout fill that row; the first unlabeled line fills the inline row; other
// labeled lines become extra rows.
func ParseBody(kind Kind, lines []string) []Field {
	layout := Layout(kind)
	values := make(map[string]string, len(layout))
	byLabel := make(map[string]FieldSpec, len(layout))
	var inline *FieldSpec
	for i := range layout {
		byLabel[strings.ToLower(layout[i].Label)] = layout[i]
		if layout[i].Inline && inline == nil {
			inline = &layout[i]
		}
	}

	var extra []Field
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if ok {
			if def, known := byLabel[strings.ToLower(strings.TrimSpace(label))]; known && !def.Inline {
				values[def.Key] = strings.TrimSpace(value)
				continue
			}
		}
		if inline != nil {
			if _, set := values[inline.Key]; !set {
				values[inline.Key] = line
				continue
			}
		}
		if ok && strings.TrimSpace(label) != "" {
			label = strings.TrimSpace(label)
			extra = append(extra, Field{Key: strings.ToLower(label), Label: label, Value: strings.TrimSpace(value)})
			continue
		}
		if inline != nil {
			values[inline.Key] += " " + line
		}
	}

	return append(Fields(kind, values), extra...)
}
