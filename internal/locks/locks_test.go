package locks

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"sidequest/internal/random"
)

func TestRegistry(t *testing.T) {
	t.Run("lock and unlock", func(t *testing.T) {
		r := New()
		if r.IsLocked("race") {
			t.Fatalf("expected race unlocked")
		}
		r.Lock("race", "  Elf ")
		v, ok := r.Value("race")
		if !ok || v != "Elf" {
			t.Fatalf("expected trimmed locked value, got %q %v", v, ok)
		}
		r.Unlock("race")
		if r.IsLocked("race") {
			t.Fatalf("expected race unlocked after Unlock")
		}
	})

	t.Run("toggle captures current value", func(t *testing.T) {
		r := New()
		if !r.Toggle("hair", "silver braids") {
			t.Fatalf("expected toggle to lock")
		}
		if v, _ := r.Value("hair"); v != "silver braids" {
			t.Fatalf("unexpected locked value %q", v)
		}
		if r.Toggle("hair", "ignored") {
			t.Fatalf("expected toggle to unlock")
		}
		if r.IsLocked("hair") {
			t.Fatalf("expected hair unlocked")
		}
	})

	t.Run("name lock is a pair", func(t *testing.T) {
		r := New()
		r.Lock(FirstName, "Mira")
		if r.NameLocked() {
			t.Fatalf("half a name is not a name lock")
		}
		r.Reset()
		if !r.ToggleName("Mira", "Vale") {
			t.Fatalf("expected name locked")
		}
		if !r.NameLocked() {
			t.Fatalf("expected NameLocked")
		}
		if got := r.Keys(); !reflect.DeepEqual(got, []string{FirstName, LastName}) {
			t.Fatalf("unexpected keys %v", got)
		}
		if r.ToggleName("x", "y") {
			t.Fatalf("expected name unlocked")
		}
		if r.IsLocked(FirstName) || r.IsLocked(LastName) {
			t.Fatalf("expected both halves unlocked")
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		r := New()
		r.Lock("race", "Dwarf")
		snap := r.Snapshot()
		snap["race"] = "Orc"
		if v, _ := r.Value("race"); v != "Dwarf" {
			t.Fatalf("snapshot mutation leaked into registry")
		}
	})
}

func TestResolve(t *testing.T) {
	sel := random.New(rand.NewSource(3))

	t.Run("locked wins", func(t *testing.T) {
		r := New()
		r.Lock("race", "Gnome")
		for i := 0; i < 20; i++ {
			if got := r.Resolve(sel, "race", []string{"Elf", "Orc"}, "Human"); got != "Gnome" {
				t.Fatalf("expected locked value, got %q", got)
			}
		}
	})

	t.Run("pool pick", func(t *testing.T) {
		r := New()
		got := r.Resolve(sel, "race", []string{"Elf"}, "Human")
		if got != "Elf" {
			t.Fatalf("expected Elf, got %q", got)
		}
	})

	t.Run("fallback on empty pool", func(t *testing.T) {
		r := New()
		if got := r.Resolve(sel, "race", nil, "Human"); got != "Human" {
			t.Fatalf("expected fallback, got %q", got)
		}
	})

	t.Run("many distinct joined", func(t *testing.T) {
		r := New()
		got := r.ResolveMany(sel, "features", []string{"a scar", "a limp"}, "none", 2, ", ")
		parts := strings.Split(got, ", ")
		if len(parts) != 2 || parts[0] == parts[1] {
			t.Fatalf("expected two distinct values, got %q", got)
		}
	})

	t.Run("many fallback", func(t *testing.T) {
		r := New()
		if got := r.ResolveMany(sel, "features", []string{}, "none", 2, ", "); got != "none" {
			t.Fatalf("expected fallback, got %q", got)
		}
	})

	t.Run("many locked", func(t *testing.T) {
		r := New()
		r.Lock("features", "a scar, a limp")
		if got := r.ResolveMany(sel, "features", []string{"x", "y"}, "none", 2, ", "); got != "a scar, a limp" {
			t.Fatalf("expected locked value, got %q", got)
		}
	})
}
