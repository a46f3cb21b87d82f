package models

import (
	"time"

	"gorm.io/gorm"
)

type Expense struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VoucherNo   string    `gorm:"column:voucher_no;size:64;uniqueIndex" json:"voucher_no"`
	ExpenseDate time.Time `gorm:"column:expense_date;index" json:"expense_date"`

	AccountID uint `gorm:"index;column:account_id" json:"account_id"`

	Amount        float64 `gorm:"type:decimal(12,2)" json:"amount"`
	PaymentMethod string  `gorm:"column:payment_method;size:50" json:"payment_method"`
	Payee         string  `gorm:"size:150" json:"payee"`
	Description   string  `gorm:"size:255" json:"description"`

	CreatorID uint `gorm:"column:creator_id" json:"creator_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
