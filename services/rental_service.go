package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RentalService orchestrates the rental lifecycle. Every transition runs in
// one transaction with the affected rental and vehicle rows locked, and keeps
// history by replication: the previous row is archived (inactive, non-latest,
// soft-deleted) and a new row carries the rental forward.
type RentalService struct {
	DB *gorm.DB
}

func NewRentalService(db *gorm.DB) *RentalService {
	return &RentalService{DB: db}
}

// DepositItem is one piece of collateral submitted with a rental.
type DepositItem struct {
	DepositTypeID    uint       `json:"deposit_type_id"`
	DepositValue     string     `json:"deposit_value"`
	RegisteredNumber string     `json:"registered_number"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	Description      string     `json:"description"`
	IsPrimary        bool       `json:"is_primary"`
}

type CreateRentalInput struct {
	VehicleID      uint           `json:"vehicle_id"`
	CustomerID     uint           `json:"customer_id"`
	InchargerID    uint           `json:"incharger_id"`
	TargetStatusID uint           `json:"target_status_id"`
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	PeriodDays     int            `json:"period_days"`
	TotalCost      float64        `json:"total_cost"`
	Notes          string         `json:"notes"`
	ExtraItems     datatypes.JSON `json:"extra_items,omitempty"`
	Deposits       []DepositItem  `json:"deposits"`
}

type AddComingDateInput struct {
	InchargerID uint   `json:"incharger_id"`
	ComingDate  string `json:"coming_date"`
	Notes       string `json:"notes"`
}

type ExtendRentalInput struct {
	InchargerID    uint    `json:"incharger_id"`
	EndDate        string  `json:"end_date"`
	AdditionalCost float64 `json:"additional_cost"`
	Notes          string  `json:"notes"`
}

type PickupInput struct {
	InchargerID     uint   `json:"incharger_id"`
	ActualStartDate string `json:"actual_start_date"`
	Notes           string `json:"notes"`
}

type ExchangeVehicleInput struct {
	InchargerID     uint   `json:"incharger_id"`
	NewVehicleID    uint   `json:"new_vehicle_id"`
	TargetStatusID  uint   `json:"target_status_id"`  // status for the replacement vehicle
	ReleaseStatusID uint   `json:"release_status_id"` // status the old vehicle falls back to
	Notes           string `json:"notes"`
}

type ExchangeDepositInput struct {
	InchargerID uint          `json:"incharger_id"`
	Deposits    []DepositItem `json:"deposits"`
	Notes       string        `json:"notes"`
}

type ReturnRentalInput struct {
	TargetStatusID uint   `json:"target_status_id"`
	Password       string `json:"password"`
	Notes          string `json:"notes"`
}

// parseDate accepts the date-only format the frontend sends, falling back to
// RFC3339 for clients that post full timestamps.
func parseDate(field, value string) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	return nil, invalid(field, "invalid date format, expected YYYY-MM-DD")
}

func newReferenceCode() string {
	return "RNT-" + strings.ToUpper(uuid.NewString()[:8])
}

// Create validates the request, then inserts the rental, links the vehicle
// and bulk-inserts deposits in one transaction.
func (s *RentalService) Create(actorID uint, in CreateRentalInput) (*models.Rental, error) {
	startDate, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate == nil {
		return nil, invalid("start_date", "start date is required")
	}
	if endDate != nil && !endDate.After(*startDate) {
		return nil, invalid("end_date", "end date must be after start date")
	}

	var vehicle models.Vehicle
	if err := s.DB.First(&vehicle, in.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("vehicle", in.VehicleID)
		}
		return nil, fmt.Errorf("db error checking vehicle %d: %w", in.VehicleID, err)
	}

	var status models.VehicleStatus
	if err := s.DB.First(&status, in.TargetStatusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("vehicle status", in.TargetStatusID)
		}
		return nil, fmt.Errorf("db error checking vehicle status %d: %w", in.TargetStatusID, err)
	}
	if vehicle.CurrentStatusID == in.TargetStatusID {
		return nil, invalid("target_status_id", "vehicle is already in the requested status")
	}

	var customer models.Customer
	if err := s.DB.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("customer", in.CustomerID)
		}
		return nil, fmt.Errorf("db error checking customer %d: %w", in.CustomerID, err)
	}

	if err := s.requireUser(in.InchargerID); err != nil {
		return nil, err
	}

	periodDays := in.PeriodDays
	if periodDays == 0 && endDate != nil {
		periodDays = int(endDate.Sub(*startDate).Hours() / 24)
	}

	var created models.Rental

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var v models.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, in.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("vehicle", in.VehicleID)
			}
			return err
		}

		rental := models.Rental{
			ReferenceCode:   newReferenceCode(),
			VehicleID:       in.VehicleID,
			CustomerID:      in.CustomerID,
			InchargerID:     in.InchargerID,
			CreatorID:       actorID,
			StartDate:       startDate,
			EndDate:         endDate,
			PeriodDays:      periodDays,
			TotalCost:       in.TotalCost,
			Status:          models.RentalStatusNew,
			Notes:           in.Notes,
			ExtraItems:      in.ExtraItems,
			IsActive:        true,
			IsLatestVersion: true,
		}
		if err := tx.Create(&rental).Error; err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}

		if err := tx.Model(&models.Vehicle{}).
			Where("id = ?", v.ID).
			Updates(map[string]interface{}{
				"current_rental_id": rental.ID,
				"current_status_id": in.TargetStatusID,
			}).Error; err != nil {
			return fmt.Errorf("failed to update vehicle %d: %w", v.ID, err)
		}

		if err := s.insertDeposits(tx, &rental, in.Deposits, startDate); err != nil {
			return err
		}

		created = rental
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":   actorID,
		"rental_id":  created.ID,
		"vehicle_id": in.VehicleID,
		"deposits":   len(in.Deposits),
	}).Info("rental created")

	return s.reload(created.ID)
}

// insertDeposits resolves each deposit type inside the transaction; a missing
// type rolls back the whole transition.
func (s *RentalService) insertDeposits(tx *gorm.DB, rental *models.Rental, items []DepositItem, startDate *time.Time) error {
	for _, item := range items {
		var dt models.DepositType
		if err := tx.First(&dt, item.DepositTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("deposit type", item.DepositTypeID)
			}
			return fmt.Errorf("db error checking deposit type %d: %w", item.DepositTypeID, err)
		}

		dep := models.Deposit{
			CustomerID:       rental.CustomerID,
			RentalID:         rental.ID,
			DepositTypeID:    item.DepositTypeID,
			DepositValue:     item.DepositValue,
			RegisteredNumber: item.RegisteredNumber,
			ExpiryDate:       item.ExpiryDate,
			Description:      item.Description,
			IsPrimary:        item.IsPrimary,
			IsActive:         true,
			StartDate:        startDate,
		}
		if err := tx.Create(&dep).Error; err != nil {
			return fmt.Errorf("failed to create deposit: %w", err)
		}
	}
	return nil
}

func (s *RentalService) requireUser(id uint) error {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("incharger", id)
		}
		return fmt.Errorf("db error checking user %d: %w", id, err)
	}
	return nil
}

// lockActiveRental loads the live version of a rental under FOR UPDATE.
func lockActiveRental(tx *gorm.DB, rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = ?", true).
		First(&rental, rentalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("rental", rentalID)
		}
		return nil, err
	}
	return &rental, nil
}

// replicate inserts the next lifecycle row for a rental. The copy starts from
// the original, mutate applies the transition-specific changes.
func replicate(tx *gorm.DB, original *models.Rental, mutate func(*models.Rental)) (*models.Rental, error) {
	next := *original
	next.ID = 0
	next.CreatedAt = time.Time{}
	next.UpdatedAt = time.Time{}
	next.DeletedAt = gorm.DeletedAt{}
	next.IsActive = true
	next.IsLatestVersion = true
	next.Vehicle = models.Vehicle{}
	next.Customer = models.Customer{}
	next.Incharger = models.User{}
	next.Creator = models.User{}
	next.Deposits = nil

	mutate(&next)

	if err := tx.Create(&next).Error; err != nil {
		return nil, fmt.Errorf("failed to replicate rental %d: %w", original.ID, err)
	}
	return &next, nil
}

// replicateDeposits copies each active deposit of the old row onto the new
// one and deactivates the original, mirroring the rental's own archival.
// Returns the number of deposits carried over.
func replicateDeposits(tx *gorm.DB, oldRentalID, newRentalID uint) (int, error) {
	var deposits []models.Deposit
	if err := tx.Where("rental_id = ? AND is_active = ?", oldRentalID, true).
		Order("id ASC").
		Find(&deposits).Error; err != nil {
		return 0, fmt.Errorf("failed to load deposits for rental %d: %w", oldRentalID, err)
	}

	now := time.Now()
	for i := range deposits {
		copyDep := deposits[i]
		copyDep.ID = 0
		copyDep.RentalID = newRentalID
		copyDep.IsActive = true
		copyDep.EndDate = nil
		copyDep.CreatedAt = time.Time{}
		copyDep.UpdatedAt = time.Time{}
		copyDep.DeletedAt = gorm.DeletedAt{}
		copyDep.DepositType = models.DepositType{}
		if err := tx.Create(&copyDep).Error; err != nil {
			return 0, fmt.Errorf("failed to replicate deposit %d: %w", deposits[i].ID, err)
		}

		if err := tx.Model(&models.Deposit{}).
			Where("id = ?", deposits[i].ID).
			Updates(map[string]interface{}{"is_active": false, "end_date": now}).Error; err != nil {
			return 0, fmt.Errorf("failed to deactivate deposit %d: %w", deposits[i].ID, err)
		}
	}
	return len(deposits), nil
}

// repointVehicle moves the vehicle's rental pointer from the archived row to
// its replacement. A vehicle that was reassigned to some other rental in the
// meantime keeps its pointer; we only log the mismatch. A vehicle row that is
// gone entirely fails the transaction.
func repointVehicle(tx *gorm.DB, actorID uint, original *models.Rental, newRentalID uint) error {
	var vehicle models.Vehicle
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, original.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("vehicle", original.VehicleID)
		}
		return err
	}

	if vehicle.CurrentRentalID == nil || *vehicle.CurrentRentalID != original.ID {
		logrus.WithFields(logrus.Fields{
			"actor_id":   actorID,
			"vehicle_id": vehicle.ID,
			"rental_id":  original.ID,
		}).Warn("vehicle no longer linked to rental, keeping existing linkage")
		return nil
	}

	return tx.Model(&models.Vehicle{}).
		Where("id = ?", vehicle.ID).
		Update("current_rental_id", newRentalID).Error
}

// archiveOriginal marks the superseded row inactive and non-latest, then
// soft-deletes it so it only shows up in history queries.
func archiveOriginal(tx *gorm.DB, original *models.Rental) error {
	if err := tx.Model(&models.Rental{}).
		Where("id = ?", original.ID).
		Updates(map[string]interface{}{
			"is_active":         false,
			"is_latest_version": false,
		}).Error; err != nil {
		return fmt.Errorf("failed to archive rental %d: %w", original.ID, err)
	}
	if err := tx.Delete(&models.Rental{}, original.ID).Error; err != nil {
		return fmt.Errorf("failed to soft-delete rental %d: %w", original.ID, err)
	}
	return nil
}

// AddComingDate records the date a customer announced they will return,
// archiving the current rental row behind a replica.
func (s *RentalService) AddComingDate(actorID, rentalID uint, in AddComingDateInput) (*models.Rental, error) {
	comingDate, err := parseDate("coming_date", in.ComingDate)
	if err != nil {
		return nil, err
	}
	if comingDate == nil {
		return nil, invalid("coming_date", "coming date is required")
	}
	if !comingDate.After(time.Now()) {
		return nil, invalid("coming_date", "coming date must be in the future")
	}
	if err := s.requireUser(in.InchargerID); err != nil {
		return nil, err
	}

	var next *models.Rental
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		original, err := lockActiveRental(tx, rentalID)
		if err != nil {
			return err
		}

		next, err = replicate(tx, original, func(r *models.Rental) {
			r.Status = models.RentalStatusAddedComingDate
			r.ComingDate = comingDate
			r.InchargerID = in.InchargerID
			if in.Notes != "" {
				r.Notes = in.Notes
			}
		})
		if err != nil {
			return err
		}

		if _, err := replicateDeposits(tx, original.ID, next.ID); err != nil {
			return err
		}
		if err := repointVehicle(tx, actorID, original, next.ID); err != nil {
			return err
		}
		return archiveOriginal(tx, original)
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":           actorID,
		"rental_id":          next.ID,
		"archived_rental_id": rentalID,
		"coming_date":        comingDate.Format("2006-01-02"),
	}).Info("coming date added")

	return s.reload(next.ID)
}

// Extend pushes the end date out and adds the agreed extra cost.
func (s *RentalService) Extend(actorID, rentalID uint, in ExtendRentalInput) (*models.Rental, error) {
	endDate, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate == nil {
		return nil, invalid("end_date", "new end date is required")
	}
	if in.AdditionalCost < 0 {
		return nil, invalid("additional_cost", "additional cost cannot be negative")
	}
	if err := s.requireUser(in.InchargerID); err != nil {
		return nil, err
	}

	var next *models.Rental
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		original, err := lockActiveRental(tx, rentalID)
		if err != nil {
			return err
		}
		if original.EndDate != nil && !endDate.After(*original.EndDate) {
			return invalid("end_date", "new end date must be after the current end date")
		}

		next, err = replicate(tx, original, func(r *models.Rental) {
			r.Status = models.RentalStatusExtended
			r.EndDate = endDate
			r.InchargerID = in.InchargerID
			r.TotalCost = original.TotalCost + in.AdditionalCost
			if r.StartDate != nil {
				r.PeriodDays = int(endDate.Sub(*r.StartDate).Hours() / 24)
			}
			if in.Notes != "" {
				r.Notes = in.Notes
			}
		})
		if err != nil {
			return err
		}

		if _, err := replicateDeposits(tx, original.ID, next.ID); err != nil {
			return err
		}
		if err := repointVehicle(tx, actorID, original, next.ID); err != nil {
			return err
		}
		return archiveOriginal(tx, original)
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":           actorID,
		"rental_id":          next.ID,
		"archived_rental_id": rentalID,
		"end_date":           endDate.Format("2006-01-02"),
	}).Info("rental extended")

	return s.reload(next.ID)
}

// Pickup records the moment the customer actually collected the vehicle.
func (s *RentalService) Pickup(actorID, rentalID uint, in PickupInput) (*models.Rental, error) {
	actualStart, err := parseDate("actual_start_date", in.ActualStartDate)
	if err != nil {
		return nil, err
	}
	if actualStart == nil {
		now := time.Now()
		actualStart = &now
	}
	if err := s.requireUser(in.InchargerID); err != nil {
		return nil, err
	}

	var next *models.Rental
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		original, err := lockActiveRental(tx, rentalID)
		if err != nil {
			return err
		}
		if original.ActualStartDate != nil {
			return invalid("rental", "vehicle already picked up")
		}

		next, err = replicate(tx, original, func(r *models.Rental) {
			r.Status = models.RentalStatusPickedUp
			r.ActualStartDate = actualStart
			r.InchargerID = in.InchargerID
			if in.Notes != "" {
				r.Notes = in.Notes
			}
		})
		if err != nil {
			return err
		}

		if _, err := replicateDeposits(tx, original.ID, next.ID); err != nil {
			return err
		}
		if err := repointVehicle(tx, actorID, original, next.ID); err != nil {
			return err
		}
		return archiveOriginal(tx, original)
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":           actorID,
		"rental_id":          next.ID,
		"archived_rental_id": rentalID,
	}).Info("vehicle picked up")

	return s.reload(next.ID)
}

// ExchangeVehicle swaps the rented vehicle for another one. The old vehicle
// falls back to the requested release status, the replacement is linked and
// moved to the requested target status.
func (s *RentalService) ExchangeVehicle(actorID, rentalID uint, in ExchangeVehicleInput) (*models.Rental, error) {
	if err := s.requireUser(in.InchargerID); err != nil {
		return nil, err
	}

	var newVehicle models.Vehicle
	if err := s.DB.First(&newVehicle, in.NewVehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("vehicle", in.NewVehicleID)
		}
		return nil, fmt.Errorf("db error checking vehicle %d: %w", in.NewVehicleID, err)
	}
	if newVehicle.CurrentStatusID == in.TargetStatusID {
		return nil, invalid("target_status_id", "replacement vehicle is already in the requested status")
	}
	for _, statusID := range []uint{in.TargetStatusID, in.ReleaseStatusID} {
		var st models.VehicleStatus
		if err := s.DB.First(&st, statusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("vehicle status", statusID)
			}
			return nil, fmt.Errorf("db error checking vehicle status %d: %w", statusID, err)
		}
	}

	var next *models.Rental
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		original, err := lockActiveRental(tx, rentalID)
		if err != nil {
			return err
		}
		if original.VehicleID == in.NewVehicleID {
			return invalid("new_vehicle_id", "replacement vehicle is the same as the current one")
		}

		next, err = replicate(tx, original, func(r *models.Rental) {
			r.Status = models.RentalStatusExchangedVehicle
			r.VehicleID = in.NewVehicleID
			r.InchargerID = in.InchargerID
			if in.Notes != "" {
				r.Notes = in.Notes
			}
		})
		if err != nil {
			return err
		}

		if _, err := replicateDeposits(tx, original.ID, next.ID); err != nil {
			return err
		}

		// release the old vehicle
		var oldVehicle models.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&oldVehicle, original.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("vehicle", original.VehicleID)
			}
			return err
		}
		oldUpdates := map[string]interface{}{"current_status_id": in.ReleaseStatusID}
		if oldVehicle.CurrentRentalID != nil && *oldVehicle.CurrentRentalID == original.ID {
			oldUpdates["current_rental_id"] = nil
		} else {
			logrus.WithFields(logrus.Fields{
				"actor_id":   actorID,
				"vehicle_id": oldVehicle.ID,
				"rental_id":  original.ID,
			}).Warn("old vehicle no longer linked to rental, updating status only")
		}
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", oldVehicle.ID).Updates(oldUpdates).Error; err != nil {
			return fmt.Errorf("failed to release vehicle %d: %w", oldVehicle.ID, err)
		}

		// link the replacement
		if err := tx.Model(&models.Vehicle{}).
			Where("id = ?", in.NewVehicleID).
			Updates(map[string]interface{}{
				"current_rental_id": next.ID,
				"current_status_id": in.TargetStatusID,
			}).Error; err != nil {
			return fmt.Errorf("failed to link vehicle %d: %w", in.NewVehicleID, err)
		}

		return archiveOriginal(tx, original)
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":           actorID,
		"rental_id":          next.ID,
		"archived_rental_id": rentalID,
		"new_vehicle_id":     in.NewVehicleID,
	}).Info("vehicle exchanged")

	return s.reload(next.ID)
}

// ExchangeDeposit replaces the collateral set: old deposits are closed out,
// the submitted set is attached to the new lifecycle row.
func (s *RentalService) ExchangeDeposit(actorID, rentalID uint, in ExchangeDepositInput) (*models.Rental, error) {
	if len(in.Deposits) == 0 {
		return nil, invalid("deposits", "at least one deposit is required")
	}
	if err := s.requireUser(in.InchargerID); err != nil {
		return nil, err
	}

	var next *models.Rental
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		original, err := lockActiveRental(tx, rentalID)
		if err != nil {
			return err
		}

		next, err = replicate(tx, original, func(r *models.Rental) {
			r.Status = models.RentalStatusExchangedDeposit
			r.InchargerID = in.InchargerID
			if in.Notes != "" {
				r.Notes = in.Notes
			}
		})
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Deposit{}).
			Where("rental_id = ? AND is_active = ?", original.ID, true).
			Updates(map[string]interface{}{"is_active": false, "end_date": now}).Error; err != nil {
			return fmt.Errorf("failed to deactivate deposits for rental %d: %w", original.ID, err)
		}

		if err := s.insertDeposits(tx, next, in.Deposits, &now); err != nil {
			return err
		}

		if err := repointVehicle(tx, actorID, original, next.ID); err != nil {
			return err
		}
		return archiveOriginal(tx, original)
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":           actorID,
		"rental_id":          next.ID,
		"archived_rental_id": rentalID,
		"deposits":           len(in.Deposits),
	}).Info("deposit exchanged")

	return s.reload(next.ID)
}

// Return closes a rental for good: deposits are handed back, the vehicle is
// freed, the rental is soft-deleted. The acting user re-enters their password
// before any write happens. No replica is created, return is terminal.
func (s *RentalService) Return(actorID, rentalID uint, in ReturnRentalInput) error {
	var actor models.User
	if err := s.DB.First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user", actorID)
		}
		return fmt.Errorf("db error checking user %d: %w", actorID, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(in.Password)) != nil {
		return &AuthorizationError{Reason: "password confirmation failed"}
	}

	var rental models.Rental
	if err := s.DB.Where("is_active = ?", true).First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("rental", rentalID)
		}
		return fmt.Errorf("db error checking rental %d: %w", rentalID, err)
	}

	var vehicle models.Vehicle
	if err := s.DB.First(&vehicle, rental.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("vehicle", rental.VehicleID)
		}
		return fmt.Errorf("db error checking vehicle %d: %w", rental.VehicleID, err)
	}
	var st models.VehicleStatus
	if err := s.DB.First(&st, in.TargetStatusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("vehicle status", in.TargetStatusID)
		}
		return fmt.Errorf("db error checking vehicle status %d: %w", in.TargetStatusID, err)
	}
	if vehicle.CurrentStatusID == in.TargetStatusID {
		return invalid("target_status_id", "vehicle is already in the requested status")
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := lockActiveRental(tx, rentalID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Deposit{}).
			Where("rental_id = ? AND is_active = ?", locked.ID, true).
			Updates(map[string]interface{}{"is_active": false, "end_date": now}).Error; err != nil {
			return fmt.Errorf("failed to deactivate deposits for rental %d: %w", locked.ID, err)
		}

		var v models.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, locked.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("vehicle", locked.VehicleID)
			}
			return err
		}
		updates := map[string]interface{}{"current_status_id": in.TargetStatusID}
		if v.CurrentRentalID != nil && *v.CurrentRentalID == locked.ID {
			updates["current_rental_id"] = nil
		} else {
			logrus.WithFields(logrus.Fields{
				"actor_id":   actorID,
				"vehicle_id": v.ID,
				"rental_id":  locked.ID,
			}).Warn("vehicle no longer linked to rental, updating status only")
		}
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", v.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to release vehicle %d: %w", v.ID, err)
		}

		rentalUpdates := map[string]interface{}{
			"actual_return_date": now,
			"is_active":          false,
		}
		if in.Notes != "" {
			rentalUpdates["notes"] = in.Notes
		}
		if err := tx.Model(&models.Rental{}).Where("id = ?", locked.ID).Updates(rentalUpdates).Error; err != nil {
			return fmt.Errorf("failed to close rental %d: %w", locked.ID, err)
		}
		if err := tx.Delete(&models.Rental{}, locked.ID).Error; err != nil {
			return fmt.Errorf("failed to soft-delete rental %d: %w", locked.ID, err)
		}
		return nil
	})
	if txErr != nil {
		logrus.WithFields(logrus.Fields{
			"actor_id":  actorID,
			"rental_id": rentalID,
		}).WithError(txErr).Error("rental return failed")
		return txErr
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":   actorID,
		"rental_id":  rentalID,
		"vehicle_id": rental.VehicleID,
	}).Info("rental returned")

	return nil
}

func (s *RentalService) reload(id uint) (*models.Rental, error) {
	var rental models.Rental
	if err := s.DB.
		Preload("Vehicle").
		Preload("Vehicle.CurrentStatus").
		Preload("Customer").
		Preload("Customer.Contacts", "is_active = ?", true).
		Preload("Incharger").
		Preload("Creator").
		Preload("Deposits", "is_active = ?", true).
		Preload("Deposits.DepositType").
		First(&rental, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rental %d: %w", id, err)
	}
	return &rental, nil
}
