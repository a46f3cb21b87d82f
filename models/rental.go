package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rental status labels written by the lifecycle service. History is kept by
// replication: every status-changing transition inserts a new row and
// soft-deletes the previous one, so a rental's past states stay queryable
// with Unscoped().
const (
	RentalStatusNew              = "New Rental"
	RentalStatusAddedComingDate  = "Added Coming Date"
	RentalStatusExtended         = "Extended"
	RentalStatusPickedUp         = "Picked Up"
	RentalStatusExchangedVehicle = "Exchanged Vehicle"
	RentalStatusExchangedDeposit = "Exchanged Deposit"
)

type Rental struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;index" json:"reference_code"`

	VehicleID   uint `gorm:"index;column:vehicle_id" json:"vehicle_id"`
	CustomerID  uint `gorm:"index;column:customer_id" json:"customer_id"`
	InchargerID uint `gorm:"index;column:incharger_id" json:"incharger_id"`
	CreatorID   uint `gorm:"column:creator_id" json:"creator_id"`

	StartDate        *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	ActualStartDate  *time.Time `gorm:"column:actual_start_date" json:"actual_start_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	ComingDate       *time.Time `gorm:"column:coming_date" json:"coming_date,omitempty"`
	ActualReturnDate *time.Time `gorm:"column:actual_return_date" json:"actual_return_date,omitempty"`

	PeriodDays int     `gorm:"column:period_days" json:"period_days"`
	TotalCost  float64 `gorm:"column:total_cost;type:decimal(12,2)" json:"total_cost"`

	Status string `gorm:"column:status;size:64" json:"status"`
	Notes  string `gorm:"column:notes;type:text" json:"notes"`

	IsActive        bool `gorm:"column:is_active;default:true;index" json:"is_active"`
	IsLatestVersion bool `gorm:"column:is_latest_version;default:true" json:"is_latest_version"`

	// Ad-hoc contract line items (child seat, extra helmet, ...) carried onto
	// the printed contract but not billed as separate rows.
	ExtraItems datatypes.JSON `gorm:"column:extra_items" json:"extra_items,omitempty"`

	Vehicle   Vehicle  `gorm:"foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`
	Customer  Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Incharger User     `gorm:"foreignKey:InchargerID;references:ID" json:"incharger,omitempty"`
	Creator   User     `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`

	Deposits []Deposit `gorm:"foreignKey:RentalID" json:"deposits,omitempty"`
}
