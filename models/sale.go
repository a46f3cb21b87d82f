package models

import (
	"time"

	"gorm.io/gorm"
)

type Sale struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VoucherNo string    `gorm:"column:voucher_no;size:64;uniqueIndex" json:"voucher_no"`
	SaleDate  time.Time `gorm:"column:sale_date;index" json:"sale_date"`

	AccountID  uint  `gorm:"index;column:account_id" json:"account_id"`
	CustomerID *uint `gorm:"index;column:customer_id" json:"customer_id,omitempty"`
	RentalID   *uint `gorm:"index;column:rental_id" json:"rental_id,omitempty"`

	Amount        float64 `gorm:"type:decimal(12,2)" json:"amount"`
	PaymentMethod string  `gorm:"column:payment_method;size:50" json:"payment_method"`
	Description   string  `gorm:"size:255" json:"description"`

	CreatorID uint `gorm:"column:creator_id" json:"creator_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Account  Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
