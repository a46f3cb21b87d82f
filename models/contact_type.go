package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex" json:"name"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
