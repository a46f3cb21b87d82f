package models

import (
	"time"

	"gorm.io/gorm"
)

// VehicleClass groups vehicles by rental tier (scooter, sedan, pickup, ...).
type VehicleClass struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
