package services

import (
	"testing"
	"time"

	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickPrimaryDeposit(t *testing.T) {
	deposits := []models.Deposit{
		{ID: 1, DepositValue: "P1234567", IsActive: true},
		{ID: 2, DepositValue: "3000", IsActive: true, IsPrimary: true},
		{ID: 3, DepositValue: "old", IsActive: false, IsPrimary: true},
	}

	picked := PickPrimaryDeposit(deposits)
	require.NotNil(t, picked)
	assert.Equal(t, uint(2), picked.ID)
}

func TestPickPrimaryDepositFallsBackToFirstActive(t *testing.T) {
	deposits := []models.Deposit{
		{ID: 1, DepositValue: "expired", IsActive: false},
		{ID: 2, DepositValue: "P1234567", IsActive: true},
		{ID: 3, DepositValue: "3000", IsActive: true},
	}

	picked := PickPrimaryDeposit(deposits)
	require.NotNil(t, picked)
	assert.Equal(t, uint(2), picked.ID)
}

func TestPickPrimaryDepositNoneActive(t *testing.T) {
	deposits := []models.Deposit{
		{ID: 1, IsActive: false},
		{ID: 2, IsActive: false, IsPrimary: true},
	}
	assert.Nil(t, PickPrimaryDeposit(deposits))
	assert.Nil(t, PickPrimaryDeposit(nil))
}

func TestPickPrimaryContact(t *testing.T) {
	contacts := []models.Contact{
		{ID: 1, ContactValue: "a@example.com", IsActive: true},
		{ID: 2, ContactValue: "+66 81 234 5678", IsActive: true, IsPrimary: true},
	}

	picked := PickPrimaryContact(contacts)
	require.NotNil(t, picked)
	assert.Equal(t, "+66 81 234 5678", picked.ContactValue)
}

func TestOverdueDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	end := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, OverdueDays(&end, nil, now))

	// Returned rentals are never overdue.
	returned := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, OverdueDays(&end, &returned, now))

	// Not yet due.
	future := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, OverdueDays(&future, nil, now))

	// Due today is not overdue.
	today := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, OverdueDays(&today, nil, now))

	assert.Equal(t, 0, OverdueDays(nil, nil, now))
}

func TestOverdueLabel(t *testing.T) {
	assert.Equal(t, "", OverdueLabel(0))
	assert.Equal(t, "1 day overdue", OverdueLabel(1))
	assert.Equal(t, "3 days overdue", OverdueLabel(3))
	assert.Equal(t, "1 week overdue", OverdueLabel(9))
	assert.Equal(t, "2 weeks overdue", OverdueLabel(15))
	assert.Equal(t, "1 month overdue", OverdueLabel(35))
	assert.Equal(t, "3 months overdue", OverdueLabel(100))
}

func TestBuildRentalView(t *testing.T) {
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)

	rental := models.Rental{
		ReferenceCode: "RNT-ABCD1234",
		EndDate:       &end,
		Vehicle:       models.Vehicle{VehicleNo: "1กข 2345"},
		Customer: models.Customer{
			FirstName: "Somchai",
			LastName:  "Jaidee",
			Contacts: []models.Contact{
				{ContactValue: "+66 81 234 5678", IsActive: true, IsPrimary: true},
				{ContactValue: "somchai@example.com", IsActive: true},
			},
		},
		Incharger: models.User{FullName: "Front Desk"},
		Deposits: []models.Deposit{
			{DepositValue: "P1234567", IsActive: true, IsPrimary: true,
				DepositType: models.DepositType{Name: "Passport"}},
			{DepositValue: "1000", IsActive: true,
				DepositType: models.DepositType{Name: "Cash", IsCash: true}},
		},
	}

	view := BuildRentalView(rental, now)

	assert.Equal(t, "1กข 2345", view.VehicleNo)
	assert.Equal(t, "Somchai Jaidee", view.CustomerName)
	assert.Equal(t, "Front Desk", view.Incharger)
	assert.Equal(t, "Passport: P1234567", view.PrimaryDeposit)
	assert.Equal(t, 2, view.ActiveDepositCount)
	assert.Equal(t, "+66 81 234 5678", view.PrimaryContact)
	assert.Equal(t, 2, view.ActiveContactCount)
	assert.True(t, view.IsOverdue)
	assert.Equal(t, 2, view.OverdueDays)
	assert.Equal(t, "2 days overdue", view.OverdueLabel)
}

func TestBuildRentalViewDefaults(t *testing.T) {
	view := BuildRentalView(models.Rental{}, time.Now())

	assert.Equal(t, "N/A", view.PrimaryDeposit)
	assert.Equal(t, "N/A", view.PrimaryContact)
	assert.False(t, view.IsOverdue)
	assert.Empty(t, view.OverdueLabel)
}
