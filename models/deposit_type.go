package models

import (
	"time"

	"gorm.io/gorm"
)

type DepositType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex" json:"name"`

	// Cash deposits render DepositValue as an amount on the contract,
	// document deposits render it as an identifier.
	IsCash bool `gorm:"column:is_cash;default:false" json:"is_cash"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
