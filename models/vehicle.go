package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model

	VehicleNo string `json:"vehicleNo" gorm:"column:vehicle_no;uniqueIndex;type:varchar(50)"`

	MakeID  *uint `json:"makeId,omitempty" gorm:"column:make_id"`
	ClassID *uint `json:"classId,omitempty" gorm:"column:class_id"`

	PricePerDay   float64 `json:"pricePerDay" gorm:"column:price_per_day;type:decimal(10,2)"`
	PricePerWeek  float64 `json:"pricePerWeek" gorm:"column:price_per_week;type:decimal(10,2)"`
	PricePerMonth float64 `json:"pricePerMonth" gorm:"column:price_per_month;type:decimal(10,2)"`

	CurrentStatusID uint `json:"currentStatusId" gorm:"column:current_status_id;index"`

	// Weak reference to the active rental. The rental side owns the
	// relationship; this is only a pointer for occupancy lookups and may lag
	// behind when a vehicle was reassigned out from under an old rental.
	CurrentRentalID *uint `json:"currentRentalId,omitempty" gorm:"column:current_rental_id;index"`

	CurrentLocation string         `json:"currentLocation" gorm:"column:current_location;size:255"`
	Specs           datatypes.JSON `json:"specs,omitempty" gorm:"column:specs"`
	Notes           string         `json:"notes" gorm:"type:text"`

	Make          VehicleMake   `gorm:"foreignKey:MakeID" json:"make,omitempty"`
	Class         VehicleClass  `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	CurrentStatus VehicleStatus `gorm:"foreignKey:CurrentStatusID" json:"currentStatus,omitempty"`
}
