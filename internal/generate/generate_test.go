package generate

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"sidequest/internal/card"
	"sidequest/internal/locks"
	"sidequest/internal/random"
	"sidequest/internal/templates"
)

func loadSet(t *testing.T) *templates.Set {
	t.Helper()
	set, err := templates.Load(context.Background(),
		"../templates/testdata/quests.json",
		"../templates/testdata/npcs.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return set
}

func newSelector(seed int64) *random.Selector {
	return random.New(rand.NewSource(seed))
}

func TestFill(t *testing.T) {
	got := Fill("Go to {location} and defeat {enemy}. {enemy} is waiting.", "the crypt", "a lich")
	want := "Go to the crypt and defeat a lich. a lich is waiting."
	if got != want {
		t.Errorf("Fill() = %q, want %q", got, want)
	}
}

func TestQuestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"rescue", "Rescue Quest"},
		{"lost relic", "Lost relic Quest"},
		{"eScort", "EScort Quest"},
		{"élite hunt", "Élite hunt Quest"},
		{"", " Quest"},
	}
	for _, tt := range tests {
		if got := QuestTitle(tt.in); got != tt.want {
			t.Errorf("QuestTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuestGenerate(t *testing.T) {
	set := loadSet(t)

	t.Run("fills placeholders from theme pools", func(t *testing.T) {
		g := NewQuest(newSelector(1), locks.New())
		c, err := g.Generate(set, "fantasy", "bounty")
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if c.Kind != card.KindQuest || c.Title != "Bounty Quest" || c.Subtype != "bounty" {
			t.Errorf("unexpected card header: %+v", c)
		}
		desc, _ := c.Field(card.KeyDescription)
		if strings.Contains(desc.Value, "{") {
			t.Errorf("description still has placeholders: %q", desc.Value)
		}
		if !strings.Contains(desc.Value, "the Ashen Road") {
			t.Errorf("description %q missing location", desc.Value)
		}
		if !strings.Contains(desc.Value, "a lich") && !strings.Contains(desc.Value, "a band of goblins") {
			t.Errorf("description %q missing theme enemy", desc.Value)
		}
		reward, _ := c.Field(card.KeyReward)
		if reward.Value != "a writ of passage" {
			t.Errorf("reward = %q", reward.Value)
		}
	})

	t.Run("any type picks a known type", func(t *testing.T) {
		g := NewQuest(newSelector(2), locks.New())
		for i := 0; i < 10; i++ {
			c, err := g.Generate(set, "fantasy", AnyType)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if c.Subtype != "rescue" && c.Subtype != "bounty" {
				t.Errorf("Subtype = %q", c.Subtype)
			}
		}
	})

	t.Run("locked description is kept verbatim", func(t *testing.T) {
		reg := locks.New()
		reg.Lock(card.KeyDescription, "Guard the bridge.")
		g := NewQuest(newSelector(3), reg)
		for i := 0; i < 5; i++ {
			c, err := g.Generate(set, "fantasy", "rescue")
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if f, _ := c.Field(card.KeyDescription); f.Value != "Guard the bridge." {
				t.Errorf("description = %q", f.Value)
			}
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		g := NewQuest(newSelector(4), locks.New())
		_, err := g.Generate(set, "steampunk", AnyType)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		g := NewQuest(newSelector(5), locks.New())
		_, err := g.Generate(set, "fantasy", "salvage")
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Type != "salvage" {
			t.Fatalf("err = %v, want NotFoundError for salvage", err)
		}
	})

	t.Run("nil set", func(t *testing.T) {
		g := NewQuest(newSelector(6), locks.New())
		if _, err := g.Generate(nil, "fantasy", AnyType); !errors.Is(err, ErrNotReady) {
			t.Fatalf("err = %v, want ErrNotReady", err)
		}
	})
}

func TestNPCGenerate(t *testing.T) {
	set := loadSet(t)

	t.Run("features take both entries of a two item pool", func(t *testing.T) {
		g := NewNPC(newSelector(7), locks.New())
		for i := 0; i < 10; i++ {
			c, err := g.Generate(set, "fantasy")
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			f, _ := c.Field("features")
			parts := strings.Split(f.Value, ", ")
			if len(parts) != 2 || parts[0] == parts[1] {
				t.Errorf("features = %q, want two distinct entries", f.Value)
			}
		}
	})

	t.Run("personality picks three distinct traits", func(t *testing.T) {
		g := NewNPC(newSelector(8), locks.New())
		c, err := g.Generate(set, "fantasy")
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		f, _ := c.Field("personalityTraits")
		seen := map[string]bool{}
		for _, p := range strings.Split(f.Value, ", ") {
			seen[p] = true
		}
		if len(seen) != 3 {
			t.Errorf("personality = %q, want three distinct traits", f.Value)
		}
	})

	t.Run("locked traits survive regeneration", func(t *testing.T) {
		reg := locks.New()
		reg.Lock("race", "Gnome")
		reg.ToggleName("Ada", "Quill")
		g := NewNPC(newSelector(9), reg)
		for i := 0; i < 20; i++ {
			c, err := g.Generate(set, "fantasy")
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if f, _ := c.Field("race"); f.Value != "Gnome" {
				t.Fatalf("race = %q", f.Value)
			}
			if c.Title != "Ada Quill" {
				t.Fatalf("title = %q", c.Title)
			}
		}
	})

	t.Run("sparse theme uses fallbacks", func(t *testing.T) {
		g := NewNPC(newSelector(10), locks.New())
		c, err := g.Generate(set, "scifi")
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		want := map[string]string{
			card.NameKey:        "Kade Orlov",
			"race":              "Android",
			"gender":            "Non-binary",
			"occupation":        "Adventurer",
			"features":          "a distinguishing scar",
			"personalityTraits": "Enigmatic",
			"questHooks":        "Needs help with a personal matter.",
		}
		for key, v := range want {
			if f, _ := c.Field(key); f.Value != v {
				t.Errorf("%s = %q, want %q", key, f.Value, v)
			}
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		g := NewNPC(newSelector(11), locks.New())
		if _, err := g.Generate(set, "steampunk"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("  Mira   de Vale ")
	if first != "Mira" || last != "de Vale" {
		t.Errorf("SplitName() = %q, %q", first, last)
	}
}
