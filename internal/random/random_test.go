package random

import (
	"math/rand"
	"testing"
)

func TestPickOne(t *testing.T) {
	sel := New(rand.NewSource(42))

	t.Run("empty list", func(t *testing.T) {
		if _, ok := sel.PickOne(nil); ok {
			t.Fatalf("expected no pick from nil list")
		}
		if _, ok := sel.PickOne([]string{}); ok {
			t.Fatalf("expected no pick from empty list")
		}
	})

	t.Run("member of list", func(t *testing.T) {
		list := []string{"a", "b", "c", "d"}
		for i := 0; i < 200; i++ {
			got, ok := sel.PickOne(list)
			if !ok {
				t.Fatalf("expected pick")
			}
			if !contains(list, got) {
				t.Fatalf("pick %q not in list", got)
			}
		}
	})

	t.Run("eventually covers every element", func(t *testing.T) {
		list := []string{"a", "b", "c"}
		seen := map[string]bool{}
		for i := 0; i < 500; i++ {
			got, _ := sel.PickOne(list)
			seen[got] = true
		}
		if len(seen) != len(list) {
			t.Fatalf("expected all elements picked, saw %v", seen)
		}
	})
}

func TestPickMany(t *testing.T) {
	sel := New(rand.NewSource(7))
	list := []string{"scar", "tattoo", "limp", "eyepatch", "freckles"}

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{name: "zero", count: 0, want: 0},
		{name: "negative", count: -3, want: 0},
		{name: "one", count: 1, want: 1},
		{name: "subset", count: 3, want: 3},
		{name: "exact", count: 5, want: 5},
		{name: "over request capped", count: 9, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sel.PickMany(list, tt.count)
			if len(got) != tt.want {
				t.Fatalf("PickMany(%d) returned %d items, want %d", tt.count, len(got), tt.want)
			}
			seen := map[string]bool{}
			for _, item := range got {
				if !contains(list, item) {
					t.Fatalf("item %q not in list", item)
				}
				if seen[item] {
					t.Fatalf("duplicate item %q", item)
				}
				seen[item] = true
			}
		})
	}

	t.Run("empty list", func(t *testing.T) {
		if got := sel.PickMany(nil, 2); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestNewNilSource(t *testing.T) {
	sel := New(nil)
	if _, ok := sel.PickOne([]string{"only"}); !ok {
		t.Fatalf("expected pick with default source")
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
