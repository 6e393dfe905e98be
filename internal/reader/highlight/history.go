package highlight

import (
	"fmt"

	"github.com/google/uuid"
)

// maxTextLength caps the stored selection text. Highlights only need
// enough text for a tooltip preview.
const maxTextLength = 100

// Position is the highlight rectangle in unscaled document coordinates.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Highlight is one user-drawn text annotation. Never mutated after
// creation; it is only removed from the set via Undo.
type Highlight struct {
	Id       string   `json:"id"`
	Page     int      `json:"page"`
	Text     string   `json:"text"`
	Color    string   `json:"color"`
	Position Position `json:"position"`
}

// New builds a highlight, truncating text to the preview cap. Page
// numbers are 1-based.
func New(page int, text, color string, pos Position) (Highlight, error) {
	if page < 1 {
		return Highlight{}, fmt.Errorf("highlight page must be >= 1, got %d", page)
	}

	runes := []rune(text)
	if len(runes) > maxTextLength {
		text = string(runes[:maxTextLength])
	}

	return Highlight{
		Id:       uuid.NewString(),
		Page:     page,
		Text:     text,
		Color:    color,
		Position: pos,
	}, nil
}

// History tracks the highlight set for one open paper with two-stack,
// snapshot-based undo/redo. Sets stay small, so full snapshots are
// cheaper than maintaining reversible deltas.
type History struct {
	current   []Highlight
	undoStack [][]Highlight
	redoStack [][]Highlight
}

func NewHistory() *History {
	return &History{current: []Highlight{}}
}

// Add appends a highlight to the set. The pre-action set is pushed onto
// the undo stack and the redo stack is cleared: a new action invalidates
// any previously undone future.
func (h *History) Add(hl Highlight) {
	h.undoStack = append(h.undoStack, h.current)
	h.redoStack = nil

	next := make([]Highlight, len(h.current), len(h.current)+1)
	copy(next, h.current)
	h.current = append(next, hl)
}

// Undo restores the previous snapshot. No-op when nothing to undo.
func (h *History) Undo() {
	if len(h.undoStack) == 0 {
		return
	}

	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, h.current)
	h.current = top
}

// Redo reapplies the most recently undone snapshot. No-op when nothing
// to redo.
func (h *History) Redo() {
	if len(h.redoStack) == 0 {
		return
	}

	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, h.current)
	h.current = top
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Highlights returns a copy of the current set in insertion order.
func (h *History) Highlights() []Highlight {
	out := make([]Highlight, len(h.current))
	copy(out, h.current)
	return out
}

// HighlightsForPage filters the current set by page number, preserving
// insertion order. Read-only; used for rendering.
func (h *History) HighlightsForPage(page int) []Highlight {
	out := make([]Highlight, 0)
	for _, hl := range h.current {
		if hl.Page == page {
			out = append(out, hl)
		}
	}
	return out
}
