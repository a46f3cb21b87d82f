package services

import (
	"errors"
	"fmt"

	"rental-backend/models"

	"gorm.io/gorm"
)

type VehicleService struct {
	DB *gorm.DB
}

func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{DB: db}
}

func (s *VehicleService) Create(vehicle *models.Vehicle) error {
	if vehicle.VehicleNo == "" {
		return invalid("vehicle_no", "vehicle number is required")
	}
	if vehicle.CurrentStatusID != 0 {
		var st models.VehicleStatus
		if err := s.DB.First(&st, vehicle.CurrentStatusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("vehicle status", vehicle.CurrentStatusID)
			}
			return err
		}
	}
	return s.DB.Create(vehicle).Error
}

func (s *VehicleService) GetAll() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.DB.
		Preload("Make").
		Preload("Class").
		Preload("CurrentStatus").
		Order("vehicle_no ASC").
		Find(&vehicles).Error
	return vehicles, err
}

func (s *VehicleService) GetByID(id uint) (models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.DB.
		Preload("Make").
		Preload("Class").
		Preload("CurrentStatus").
		First(&vehicle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vehicle, notFound("vehicle", id)
	}
	return vehicle, err
}

func (s *VehicleService) Update(vehicle models.Vehicle) error {
	return s.DB.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Updates(vehicle).Error
}

// Delete refuses to remove a vehicle that still has live rentals pointing at
// it; history rows do not block deletion.
func (s *VehicleService) Delete(id uint) error {
	var count int64
	if err := s.DB.Model(&models.Rental{}).
		Where("vehicle_id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check live rentals for vehicle %d: %w", id, err)
	}
	if count > 0 {
		return invalid("vehicle", "vehicle is referenced by an active rental")
	}
	return s.DB.Delete(&models.Vehicle{}, id).Error
}

// Lookup table CRUD. Statuses, makes and classes are administered rarely and
// share the same simple shape.

func (s *VehicleService) GetStatuses() ([]models.VehicleStatus, error) {
	var statuses []models.VehicleStatus
	err := s.DB.Order("id ASC").Find(&statuses).Error
	return statuses, err
}

func (s *VehicleService) CreateStatus(status *models.VehicleStatus) error {
	return s.DB.Create(status).Error
}

func (s *VehicleService) GetMakes() ([]models.VehicleMake, error) {
	var makes []models.VehicleMake
	err := s.DB.Order("name ASC").Find(&makes).Error
	return makes, err
}

func (s *VehicleService) CreateMake(m *models.VehicleMake) error {
	return s.DB.Create(m).Error
}

func (s *VehicleService) GetClasses() ([]models.VehicleClass, error) {
	var classes []models.VehicleClass
	err := s.DB.Order("name ASC").Find(&classes).Error
	return classes, err
}

func (s *VehicleService) CreateClass(c *models.VehicleClass) error {
	return s.DB.Create(c).Error
}
