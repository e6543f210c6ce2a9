package card

import (
	"errors"
	"strings"
)

var ErrDuplicateTag = errors.New("tag already exists on this card")

// AddTag appends a trimmed tag. Blank input is ignored and reported as not
// added; a case-insensitive duplicate returns ErrDuplicateTag.
func (c *Card) AddTag(text string) (bool, error) {
	tag := strings.TrimSpace(text)
	if tag == "" {
		return false, nil
	}
	if c.HasTag(tag) {
		return false, ErrDuplicateTag
	}
	c.Tags = append(c.Tags, tag)
	return true, nil
}

// RemoveTag drops the tag matching text case-insensitively.
func (c *Card) RemoveTag(text string) bool {
	tag := strings.TrimSpace(text)
	for i, existing := range c.Tags {
		if strings.EqualFold(existing, tag) {
			c.Tags = append(c.Tags[:i:i], c.Tags[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Card) HasTag(text string) bool {
	tag := strings.TrimSpace(text)
	for _, existing := range c.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// NormalizeTags trims and de-duplicates tags, keeping first occurrences.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
