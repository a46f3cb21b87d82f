package services

import (
	"fmt"
	"time"

	"rental-backend/models"

	"gorm.io/gorm"
)

type DashboardService struct {
	DB *gorm.DB

	rentals *RentalService
}

func NewDashboardService(db *gorm.DB, rentals *RentalService) *DashboardService {
	return &DashboardService{DB: db, rentals: rentals}
}

type VehicleStatusCount struct {
	StatusID uint   `json:"status_id"`
	Status   string `json:"status"`
	Count    int64  `json:"count"`
}

type DashboardSummary struct {
	ActiveRentals    int64                `json:"active_rentals"`
	TotalVehicles    int64                `json:"total_vehicles"`
	TotalCustomers   int64                `json:"total_customers"`
	VehiclesByStatus []VehicleStatusCount `json:"vehicles_by_status"`

	OverdueRentals []RentalView `json:"overdue_rentals"`

	MonthIncome  float64 `json:"month_income"`
	MonthExpense float64 `json:"month_expense"`
}

// Summary assembles the landing-page numbers in one pass.
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	out := DashboardSummary{}

	if err := s.DB.Model(&models.Rental{}).Where("is_active = ?", true).Count(&out.ActiveRentals).Error; err != nil {
		return nil, fmt.Errorf("failed to count active rentals: %w", err)
	}
	if err := s.DB.Model(&models.Vehicle{}).Count(&out.TotalVehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}
	if err := s.DB.Model(&models.Customer{}).Count(&out.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := s.DB.Model(&models.Vehicle{}).
		Select("vehicles.current_status_id AS status_id, vehicle_statuses.name AS status, COUNT(*) AS count").
		Joins("LEFT JOIN vehicle_statuses ON vehicle_statuses.id = vehicles.current_status_id").
		Group("vehicles.current_status_id, vehicle_statuses.name").
		Scan(&out.VehiclesByStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to group vehicles by status: %w", err)
	}

	views, err := s.rentals.List()
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		if v.IsOverdue {
			out.OverdueRentals = append(out.OverdueRentals, v)
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := s.DB.Model(&models.Sale{}).
		Where("sale_date >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&out.MonthIncome).Error; err != nil {
		return nil, fmt.Errorf("failed to total month income: %w", err)
	}
	if err := s.DB.Model(&models.Expense{}).
		Where("expense_date >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&out.MonthExpense).Error; err != nil {
		return nil, fmt.Errorf("failed to total month expenses: %w", err)
	}

	return &out, nil
}
