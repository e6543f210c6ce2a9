// Package dice rolls polyhedral dice.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sidequest/internal/random"
)

const (
	MinCount = 1
	MaxCount = 20
)

// Standard lists the dice offered as one-click buttons.
var Standard = []int{4, 6, 8, 10, 12, 20, 100}

var (
	ErrInvalidSides    = errors.New("a die needs more than one side")
	ErrInvalidNotation = errors.New("dice notation must look like 3d6 or d20")
)

type Roll struct {
	Sides   int   `json:"sides"`
	Count   int   `json:"count"`
	Results []int `json:"results"`
}

func (r Roll) Total() int {
	total := 0
	for _, v := range r.Results {
		total += v
	}
	return total
}

// Label is the roll in NdS form.
func (r Roll) Label() string {
	return fmt.Sprintf("%dd%d", r.Count, r.Sides)
}

func (r Roll) String() string {
	parts := make([]string, len(r.Results))
	for i, v := range r.Results {
		parts[i] = strconv.Itoa(v)
	}
	return "🎲 " + strings.Join(parts, ", ")
}

// ClampCount keeps count within MinCount..MaxCount.
func ClampCount(count int) int {
	return min(max(count, MinCount), MaxCount)
}

// RollDice rolls count dice of sides faces. count is clamped.
func RollDice(sel *random.Selector, sides, count int) (Roll, error) {
	if sides <= 1 {
		return Roll{}, fmt.Errorf("%w: d%d", ErrInvalidSides, sides)
	}
	count = ClampCount(count)
	results := make([]int, count)
	for i := range results {
		results[i] = sel.Intn(sides) + 1
	}
	return Roll{Sides: sides, Count: count, Results: results}, nil
}

// ParseNotation reads "NdS" or "dS". A missing count means one die.
func ParseNotation(notation string) (sides, count int, err error) {
	n := strings.ToLower(strings.TrimSpace(notation))
	countText, sidesText, ok := strings.Cut(n, "d")
	if !ok || sidesText == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	count = 1
	if countText != "" {
		if count, err = strconv.Atoi(countText); err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
		}
	}
	if sides, err = strconv.Atoi(sidesText); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	if sides <= 1 {
		return 0, 0, fmt.Errorf("%w: d%d", ErrInvalidSides, sides)
	}
	return sides, ClampCount(count), nil
}
