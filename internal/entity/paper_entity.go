package entity

import (
	"time"

	"github.com/google/uuid"
)

type Paper struct {
	Id        uuid.UUID
	Name      string
	Title     string
	Author    string
	PageCount int
	FileSize  int64
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
