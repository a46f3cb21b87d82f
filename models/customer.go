package models

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model

	FirstName string `json:"firstName" gorm:"column:first_name;size:150"`
	LastName  string `json:"lastName" gorm:"column:last_name;size:150"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" gorm:"column:date_of_birth"`
	Gender      string     `json:"gender" gorm:"size:20"`
	Nationality string     `json:"nationality" gorm:"size:100"`

	CurrentAddress string `json:"currentAddress" gorm:"column:current_address;type:text"`
	HomeAddress    string `json:"homeAddress" gorm:"column:home_address;type:text"`

	PassportNumber  string     `json:"passportNumber" gorm:"column:passport_number;size:50;index"`
	PassportCountry string     `json:"passportCountry" gorm:"column:passport_country;size:100"`
	PassportExpiry  *time.Time `json:"passportExpiry,omitempty" gorm:"column:passport_expiry"`

	Notes     string `json:"notes" gorm:"type:text"`
	CreatorID uint   `json:"creatorId" gorm:"column:creator_id"`

	Contacts []Contact `gorm:"foreignKey:CustomerID" json:"contacts,omitempty"`
}

func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
