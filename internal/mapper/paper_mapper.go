package mapper

import (
	"encoding/json"
	"time"

	"ai-paper-reader-be/internal/entity"
	"ai-paper-reader-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaperMapper struct{}

func NewPaperMapper() *PaperMapper {
	return &PaperMapper{}
}

func (m *PaperMapper) ToEntity(p *model.Paper) *entity.Paper {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if len(p.Metadata) > 0 {
		_ = json.Unmarshal(p.Metadata, &metadata)
	}

	return &entity.Paper{
		Id:        p.Id,
		Name:      p.Name,
		Title:     p.Title,
		Author:    p.Author,
		PageCount: p.PageCount,
		FileSize:  p.FileSize,
		Metadata:  metadata,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: p.DeletedAt.Valid,
	}
}

func (m *PaperMapper) ToModel(p *entity.Paper) *model.Paper {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var metadata datatypes.JSON
	if p.Metadata != nil {
		if b, err := json.Marshal(p.Metadata); err == nil {
			metadata = b
		}
	}

	return &model.Paper{
		Id:        p.Id,
		Name:      p.Name,
		Title:     p.Title,
		Author:    p.Author,
		PageCount: p.PageCount,
		FileSize:  p.FileSize,
		Metadata:  metadata,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *PaperMapper) ToEntities(papers []*model.Paper) []*entity.Paper {
	entities := make([]*entity.Paper, len(papers))
	for i, p := range papers {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
