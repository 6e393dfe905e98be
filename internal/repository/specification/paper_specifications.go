package specification

import "gorm.io/gorm"

// TitleAuthorOrNameLike does a case-insensitive substring match across the
// searchable paper fields.
type TitleAuthorOrNameLike struct {
	Query string
}

func (s TitleAuthorOrNameLike) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR author ILIKE ? OR name ILIKE ?", pattern, pattern, pattern)
}

// ByName filters papers by their workspace folder name
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
