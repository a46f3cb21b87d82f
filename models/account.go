package models

import (
	"time"

	"gorm.io/gorm"
)

// Ledger account categories for the lightweight accounting module.
const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeIncome    = "income"
	AccountTypeExpense   = "expense"
)

type Account struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"size:20;uniqueIndex" json:"code"`
	Name        string `gorm:"size:150" json:"name"`
	Type        string `gorm:"size:20;index" json:"type"`
	Description string `gorm:"size:255" json:"description"`

	// Balances carried in from before the system was adopted.
	OpeningBalance float64 `gorm:"column:opening_balance;type:decimal(12,2);default:0" json:"opening_balance"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
