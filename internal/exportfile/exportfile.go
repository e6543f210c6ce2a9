// Package exportfile renders cards as downloadable plain-text files and reads
// them back.
package exportfile

import (
	"bytes"
	"errors"
	"os"
	"regexp"
	"strings"

	"sidequest/internal/card"
)

// Separator sits between the title and the body, and before the tag line.
const Separator = "--------------------"

const tagPrefix = "Tags:"

type Document struct {
	Title      string
	Lines      []string
	Tags       []string
	SourceFile string
}

var (
	ErrEmpty       = errors.New("export file is empty")
	ErrNoSeparator = errors.New("export file has no separator line after the title")
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeRune    = regexp.MustCompile(`(?i)[^a-z0-9]`)
)

// Render produces the export text for c.
func Render(c *card.Card) string {
	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString("\n")
	b.WriteString(Separator)
	b.WriteString("\n")
	b.WriteString(strings.Join(c.BodyLines(), "\n"))
	if len(c.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(Separator)
		b.WriteString("\n")
		b.WriteString(TagLine(c.Tags))
	}
	b.WriteString("\n")
	return b.String()
}

func TagLine(tags []string) string {
	hashed := make([]string, 0, len(tags))
	for _, tag := range tags {
		hashed = append(hashed, "#"+tag)
	}
	return tagPrefix + " " + strings.Join(hashed, " ")
}

// Filename derives a safe download name from a card title.
func Filename(title string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(title), " ")
	name = strings.ToLower(unsafeRune.ReplaceAllString(name, "_"))
	if name == "" {
		name = "export"
	}
	return name + ".txt"
}

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

// Parse reads an export back. A trailing separator followed by a "Tags:" line
// is split off into Tags.
func Parse(content []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(content, "\ufeff\n\r\t ")
	if len(bytes.TrimSpace(trimmed)) == 0 {
		return nil, ErrEmpty
	}

	lines := strings.Split(strings.ReplaceAll(string(trimmed), "\r\n", "\n"), "\n")
	title := strings.TrimSpace(lines[0])
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != Separator {
		return nil, ErrNoSeparator
	}
	body := lines[2:]

	var tags []string
	for i := len(body) - 1; i >= 0; i-- {
		line := strings.TrimSpace(body[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, tagPrefix) && i > 0 && strings.TrimSpace(body[i-1]) == Separator {
			tags = parseTags(strings.TrimPrefix(line, tagPrefix))
			body = body[:i-1]
		}
		break
	}

	out := make([]string, 0, len(body))
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}

	return &Document{
		Title: title,
		Lines: out,
		Tags:  tags,
	}, nil
}

// parseTags splits a tag line on " #" so tags keep their inner spaces.
func parseTags(value string) []string {
	var tags []string
	for _, part := range strings.Split(" "+strings.TrimSpace(value), " #") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Card rebuilds a card of kind from the document. Tags that repeat
// case-insensitively are dropped.
func (d *Document) Card(kind card.Kind, theme string) *card.Card {
	c := card.New(kind, theme, d.Title, card.ParseBody(kind, d.Lines))
	c.SetTitle(d.Title)
	for _, tag := range d.Tags {
		_, _ = c.AddTag(tag)
	}
	return c
}

// GuessKind reports KindNPC when the body carries NPC-only rows.
func (d *Document) GuessKind() card.Kind {
	for _, line := range d.Lines {
		label, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(label) {
		case "Race", "Occupation", "Personality":
			return card.KindNPC
		}
	}
	return card.KindQuest
}
