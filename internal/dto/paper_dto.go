package dto

import (
	"time"

	"github.com/google/uuid"
)

type PaperResponse struct {
	Id        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Title     string                 `json:"title"`
	Author    string                 `json:"author"`
	PageCount int                    `json:"page_count"`
	FileSize  int64                  `json:"file_size"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

type ListPapersResponse struct {
	Papers []*PaperResponse `json:"papers"`
	Total  int64            `json:"total"`
}

type DeletePaperResponse struct {
	Id uuid.UUID `json:"id"`
}

type PaperTextResponse struct {
	Id       uuid.UUID `json:"id"`
	FromPage int       `json:"from_page"`
	ToPage   int       `json:"to_page"`
	Text     string    `json:"text"`
}
