package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Paper struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"type:varchar(255);not null;index"`
	Title     string         `gorm:"type:text"`
	Author    string         `gorm:"type:text"`
	PageCount int            `gorm:"not null;default:0"`
	FileSize  int64          `gorm:"not null;default:0"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"` // raw PDF document info (subject, creator, ...)
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Paper) TableName() string {
	return "papers"
}
