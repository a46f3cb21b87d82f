package services

import (
	"errors"
	"fmt"
	"time"

	"rental-backend/models"

	"gorm.io/gorm"
)

// RentalView is the denormalized row the rentals index, POS screen and
// dashboard render. Primary deposit/contact are picked with a fallback chain
// so the UI never has to deal with a missing primary flag.
type RentalView struct {
	Rental models.Rental `json:"rental"`

	VehicleNo    string `json:"vehicle_no"`
	CustomerName string `json:"customer_name"`
	Incharger    string `json:"incharger"`

	PrimaryDeposit     string `json:"primary_deposit"`
	ActiveDepositCount int    `json:"active_deposit_count"`
	PrimaryContact     string `json:"primary_contact"`
	ActiveContactCount int    `json:"active_contact_count"`

	IsOverdue    bool   `json:"is_overdue"`
	OverdueDays  int    `json:"overdue_days"`
	OverdueLabel string `json:"overdue_label,omitempty"`
}

// PickPrimaryDeposit returns the explicit primary among active deposits, the
// first active one when no primary is flagged, or nil when none are active.
func PickPrimaryDeposit(deposits []models.Deposit) *models.Deposit {
	var first *models.Deposit
	for i := range deposits {
		if !deposits[i].IsActive {
			continue
		}
		if deposits[i].IsPrimary {
			return &deposits[i]
		}
		if first == nil {
			first = &deposits[i]
		}
	}
	return first
}

func PickPrimaryContact(contacts []models.Contact) *models.Contact {
	var first *models.Contact
	for i := range contacts {
		if !contacts[i].IsActive {
			continue
		}
		if contacts[i].IsPrimary {
			return &contacts[i]
		}
		if first == nil {
			first = &contacts[i]
		}
	}
	return first
}

func countActiveDeposits(deposits []models.Deposit) int {
	n := 0
	for i := range deposits {
		if deposits[i].IsActive {
			n++
		}
	}
	return n
}

func countActiveContacts(contacts []models.Contact) int {
	n := 0
	for i := range contacts {
		if contacts[i].IsActive {
			n++
		}
	}
	return n
}

// OverdueDays returns how many whole calendar days a rental is past its end
// date at the given instant. Rentals with a recorded return are never
// overdue.
func OverdueDays(endDate, actualReturnDate *time.Time, now time.Time) int {
	if endDate == nil || actualReturnDate != nil {
		return 0
	}
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(end).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// OverdueLabel renders a short human-readable duration for overdue banners.
func OverdueLabel(days int) string {
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return "1 day overdue"
	case days < 7:
		return fmt.Sprintf("%d days overdue", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week overdue"
		}
		return fmt.Sprintf("%d weeks overdue", weeks)
	default:
		months := days / 30
		if months == 1 {
			return "1 month overdue"
		}
		return fmt.Sprintf("%d months overdue", months)
	}
}

// BuildRentalView assembles the view model for one rental. The rental is
// expected to arrive with Vehicle, Customer (with active contacts), Incharger
// and active Deposits preloaded.
func BuildRentalView(rental models.Rental, now time.Time) RentalView {
	view := RentalView{
		Rental:             rental,
		VehicleNo:          rental.Vehicle.VehicleNo,
		CustomerName:       rental.Customer.FullName(),
		Incharger:          rental.Incharger.FullName,
		PrimaryDeposit:     "N/A",
		PrimaryContact:     "N/A",
		ActiveDepositCount: countActiveDeposits(rental.Deposits),
		ActiveContactCount: countActiveContacts(rental.Customer.Contacts),
	}

	if dep := PickPrimaryDeposit(rental.Deposits); dep != nil {
		view.PrimaryDeposit = dep.DepositValue
		if dep.DepositType.Name != "" {
			view.PrimaryDeposit = dep.DepositType.Name + ": " + dep.DepositValue
		}
	}
	if ct := PickPrimaryContact(rental.Customer.Contacts); ct != nil {
		view.PrimaryContact = ct.ContactValue
	}

	days := OverdueDays(rental.EndDate, rental.ActualReturnDate, now)
	if days > 0 {
		view.IsOverdue = true
		view.OverdueDays = days
		view.OverdueLabel = OverdueLabel(days)
	}

	return view
}

// List returns view models for all live rentals, newest first.
func (s *RentalService) List() ([]RentalView, error) {
	var rentals []models.Rental
	if err := s.DB.
		Preload("Vehicle").
		Preload("Vehicle.CurrentStatus").
		Preload("Customer").
		Preload("Customer.Contacts", "is_active = ?", true).
		Preload("Customer.Contacts.ContactType").
		Preload("Incharger").
		Preload("Creator").
		Preload("Deposits", "is_active = ?", true).
		Preload("Deposits.DepositType").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rentals: %w", err)
	}

	now := time.Now()
	views := make([]RentalView, 0, len(rentals))
	for _, r := range rentals {
		views = append(views, BuildRentalView(r, now))
	}
	return views, nil
}

// Get returns the view model for one live rental.
func (s *RentalService) Get(id uint) (*RentalView, error) {
	rental, err := s.reload(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("rental", id)
		}
		return nil, err
	}
	view := BuildRentalView(*rental, time.Now())
	return &view, nil
}

// History returns every archived lifecycle row sharing a reference code,
// oldest first, so the UI can show the audit trail replication produces.
func (s *RentalService) History(referenceCode string) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := s.DB.Unscoped().
		Preload("Vehicle").
		Preload("Incharger").
		Where("reference_code = ?", referenceCode).
		Order("id ASC").
		Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rental history: %w", err)
	}
	return rentals, nil
}
