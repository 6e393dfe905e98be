package highlight

import (
	"fmt"
	"strings"
	"testing"
)

func mustHighlight(t *testing.T, page int, text string) Highlight {
	t.Helper()
	hl, err := New(page, text, "#ffff00", Position{X: 10, Y: 20, Width: 100, Height: 12})
	if err != nil {
		t.Fatalf("New(%d, %q): %v", page, text, err)
	}
	return hl
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		text     string
		wantErr  bool
		wantText string
	}{
		{
			name:     "simple",
			page:     1,
			text:     "neural networks",
			wantText: "neural networks",
		},
		{
			name:     "text at cap kept whole",
			page:     3,
			text:     strings.Repeat("a", 100),
			wantText: strings.Repeat("a", 100),
		},
		{
			name:     "long text truncated to 100",
			page:     3,
			text:     strings.Repeat("b", 250),
			wantText: strings.Repeat("b", 100),
		},
		{
			name:    "page zero rejected",
			page:    0,
			text:    "x",
			wantErr: true,
		},
		{
			name:    "negative page rejected",
			page:    -4,
			text:    "x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hl, err := New(tt.page, tt.text, "#ffff00", Position{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hl.Text != tt.wantText {
				t.Fatalf("text = %q (len %d), want %q", hl.Text, len(hl.Text), tt.wantText)
			}
			if hl.Page != tt.page {
				t.Fatalf("page = %d, want %d", hl.Page, tt.page)
			}
			if hl.Id == "" {
				t.Fatal("highlight id is empty")
			}
		})
	}
}

func TestTruncationCountsRunes(t *testing.T) {
	text := strings.Repeat("é", 150)
	hl, err := New(1, text, "", Position{})
	if err != nil {
		t.Fatal(err)
	}
	if got := len([]rune(hl.Text)); got != 100 {
		t.Fatalf("truncated rune count = %d, want 100", got)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()

	const n = 7
	added := make([]Highlight, 0, n)
	for i := 0; i < n; i++ {
		hl := mustHighlight(t, i+1, fmt.Sprintf("highlight %d", i))
		added = append(added, hl)
		h.Add(hl)
	}

	for i := 0; i < n; i++ {
		h.Undo()
	}
	if got := h.Highlights(); len(got) != 0 {
		t.Fatalf("after %d undos, set has %d highlights, want 0", n, len(got))
	}

	for i := 0; i < n; i++ {
		h.Redo()
	}
	got := h.Highlights()
	if len(got) != n {
		t.Fatalf("after %d redos, set has %d highlights, want %d", n, len(got), n)
	}
	for i := range got {
		if got[i].Id != added[i].Id {
			t.Fatalf("highlight %d: id = %q, want %q", i, got[i].Id, added[i].Id)
		}
	}
}

func TestUndoRedoEmptyStacksAreNoOps(t *testing.T) {
	h := NewHistory()

	h.Undo()
	h.Redo()
	if len(h.Highlights()) != 0 {
		t.Fatal("empty history mutated by no-op undo/redo")
	}

	h.Add(mustHighlight(t, 1, "one"))
	h.Redo() // redo stack empty, must not change anything
	if got := h.Highlights(); len(got) != 1 {
		t.Fatalf("redo on empty stack changed set: %d highlights", len(got))
	}

	h.Undo()
	h.Undo() // second undo hits empty stack
	if got := h.Highlights(); len(got) != 0 {
		t.Fatalf("undo on empty stack changed set: %d highlights", len(got))
	}
}

func TestAddClearsRedoStack(t *testing.T) {
	h := NewHistory()
	h.Add(mustHighlight(t, 1, "first"))
	h.Add(mustHighlight(t, 1, "second"))
	h.Undo()

	if !h.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	replacement := mustHighlight(t, 2, "replacement")
	h.Add(replacement)

	if h.CanRedo() {
		t.Fatal("Add must clear the redo stack")
	}
	h.Redo() // must be a no-op
	got := h.Highlights()
	if len(got) != 2 {
		t.Fatalf("set size = %d, want 2", len(got))
	}
	if got[1].Id != replacement.Id {
		t.Fatalf("last highlight = %q, want the replacement", got[1].Text)
	}
}

func TestRapidAddsSnapshotEach(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 5; i++ {
		h.Add(mustHighlight(t, 1, fmt.Sprintf("h%d", i)))
	}

	// Each add must be individually reversible: three undos leave two.
	h.Undo()
	h.Undo()
	h.Undo()
	if got := h.Highlights(); len(got) != 2 {
		t.Fatalf("after 5 adds and 3 undos, set size = %d, want 2", len(got))
	}
}

func TestHighlightsForPage(t *testing.T) {
	h := NewHistory()
	p1a := mustHighlight(t, 1, "p1 first")
	p2 := mustHighlight(t, 2, "p2 only")
	p1b := mustHighlight(t, 1, "p1 second")
	h.Add(p1a)
	h.Add(p2)
	h.Add(p1b)

	got := h.HighlightsForPage(1)
	if len(got) != 2 {
		t.Fatalf("page 1 highlights = %d, want 2", len(got))
	}
	if got[0].Id != p1a.Id || got[1].Id != p1b.Id {
		t.Fatal("page filter broke insertion order")
	}

	if len(h.HighlightsForPage(9)) != 0 {
		t.Fatal("expected no highlights on page 9")
	}

	// Query must not mutate state.
	if len(h.Highlights()) != 3 {
		t.Fatal("HighlightsForPage mutated the set")
	}
}

func TestHighlightsReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Add(mustHighlight(t, 1, "original"))

	snap := h.Highlights()
	snap[0].Text = "mutated"

	if h.Highlights()[0].Text != "original" {
		t.Fatal("history state leaked through Highlights()")
	}
}
