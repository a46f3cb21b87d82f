package models

import (
	"time"

	"gorm.io/gorm"
)

// Deposit is collateral held against a rental: either a cash amount or a
// physical document (passport, ID card). DepositValue is free text because it
// holds a money amount for cash deposits and a document identifier otherwise.
type Deposit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID    uint `gorm:"index;column:customer_id" json:"customer_id"`
	RentalID      uint `gorm:"index;column:rental_id" json:"rental_id"`
	DepositTypeID uint `gorm:"index;column:deposit_type_id" json:"deposit_type_id"`

	DepositValue     string     `gorm:"column:deposit_value;size:255" json:"deposit_value"`
	RegisteredNumber string     `gorm:"column:registered_number;size:100" json:"registered_number"`
	ExpiryDate       *time.Time `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	Description      string     `gorm:"size:255" json:"description"`

	IsPrimary bool `gorm:"column:is_primary;default:false" json:"is_primary"`
	IsActive  bool `gorm:"column:is_active;default:true;index" json:"is_active"`

	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	DepositType DepositType `gorm:"foreignKey:DepositTypeID" json:"deposit_type,omitempty"`
}
