package card

import "testing"

func ids(cards []*Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestSingleBoardReplaces(t *testing.T) {
	b := NewSingleBoard()
	first := testQuestCard()
	second := testQuestCard()
	b.Show(first)
	b.Show(second)
	if b.Len() != 1 {
		t.Fatalf("expected one card, got %d", b.Len())
	}
	if _, ok := b.Find(second.ID); !ok {
		t.Fatalf("expected latest card displayed")
	}
	if _, ok := b.Find(first.ID); ok {
		t.Fatalf("expected previous card replaced")
	}
}

func TestListBoard(t *testing.T) {
	b := NewListBoard()
	a, bb, c := testQuestCard(), testQuestCard(), testQuestCard()
	b.Show(a)
	b.Show(bb)
	b.Show(c)
	got := ids(b.Cards())
	want := []string{c.ID, bb.ID, a.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected newest first, got %v", got)
		}
	}

	removed, pos, ok := b.Remove(bb.ID)
	if !ok || removed != bb || pos != 1 {
		t.Fatalf("unexpected remove result %v %d %v", removed, pos, ok)
	}
	if b.Len() != 2 {
		t.Fatalf("expected two cards after remove")
	}
	b.InsertAt(bb, pos)
	got = ids(b.Cards())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected original order restored, got %v", got)
		}
	}

	if _, _, ok := b.Remove("missing"); ok {
		t.Fatalf("expected missing remove to fail")
	}

	extra := testQuestCard()
	b.InsertAt(extra, 99)
	if cards := b.Cards(); cards[len(cards)-1] != extra {
		t.Fatalf("expected clamp to end")
	}
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected empty board")
	}
}

func TestShowIfEmpty(t *testing.T) {
	b := NewSingleBoard()
	first, second := testQuestCard(), testQuestCard()
	if !b.ShowIfEmpty(first) {
		t.Fatalf("expected empty board to accept card")
	}
	if b.ShowIfEmpty(second) {
		t.Fatalf("expected occupied board to refuse card")
	}
	if _, ok := b.Find(first.ID); !ok {
		t.Fatalf("expected first card kept")
	}
}

func TestReplaceRemote(t *testing.T) {
	b := NewListBoard()
	a, saved, c := testQuestCard(), testQuestCard(), testQuestCard()
	saved.RemoteID = "rec-1"
	b.Show(a)
	b.Show(saved)
	b.Show(c)

	local := testQuestCard()
	local.RemoteID = "rec-1"
	if !b.ReplaceRemote(local) {
		t.Fatalf("expected replacement")
	}
	got := ids(b.Cards())
	if len(got) != 3 || got[1] != local.ID {
		t.Fatalf("expected replacement in place, got %v", got)
	}

	other := testQuestCard()
	if b.ReplaceRemote(other) {
		t.Fatalf("expected unsaved card not to replace anything")
	}
}
