package models

import (
	"time"

	"gorm.io/gorm"
)

type Contact struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID    uint   `gorm:"index;column:customer_id" json:"customer_id"`
	ContactTypeID uint   `gorm:"index;column:contact_type_id" json:"contact_type_id"`
	ContactValue  string `gorm:"column:contact_value;size:255" json:"contact_value"`
	Description   string `gorm:"size:255" json:"description"`

	// At most one active primary per customer. Read paths tolerate zero or
	// several and fall back to the first active contact.
	IsPrimary bool `gorm:"column:is_primary;default:false" json:"is_primary"`
	IsActive  bool `gorm:"column:is_active;default:true;index" json:"is_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ContactType ContactType `gorm:"foreignKey:ContactTypeID" json:"contact_type,omitempty"`
}
