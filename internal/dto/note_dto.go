package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteResponse struct {
	PaperId   uuid.UUID  `json:"paper_id"`
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type SaveNoteRequest struct {
	// Content may legitimately be empty: saving a cleared editor is valid.
	Content string `json:"content"`
}

type AppendNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

type SaveNoteResponse struct {
	PaperId uuid.UUID `json:"paper_id"`
	SavedAt time.Time `json:"saved_at"`
}
