package services

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"rental-backend/models"
)

func newMockedService(t *testing.T) (*RentalService, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewRentalService(db), mock
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("start_date", "2025-06-15")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())

	d, err = parseDate("start_date", "2025-06-15T09:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 9, d.Hour())

	d, err = parseDate("start_date", "  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDate("start_date", "15/06/2025")
	require.Error(t, err)
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "start_date")
}

func TestNewReferenceCode(t *testing.T) {
	code := newReferenceCode()
	assert.True(t, strings.HasPrefix(code, "RNT-"))
	assert.Len(t, code, len("RNT-")+8)
	assert.NotEqual(t, code, newReferenceCode())
}

func TestCreateRejectsBadDatesBeforeTouchingDB(t *testing.T) {
	svc := NewRentalService(nil)

	_, err := svc.Create(1, CreateRentalInput{
		VehicleID: 1, CustomerID: 1, InchargerID: 1,
		StartDate: "not-a-date",
	})
	_, ok := AsValidation(err)
	assert.True(t, ok)

	_, err = svc.Create(1, CreateRentalInput{
		VehicleID: 1, CustomerID: 1, InchargerID: 1,
	})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "start_date")

	_, err = svc.Create(1, CreateRentalInput{
		VehicleID: 1, CustomerID: 1, InchargerID: 1,
		StartDate: "2025-06-15", EndDate: "2025-06-10",
	})
	verr, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "end_date")
}

func TestCreateUnknownVehicle(t *testing.T) {
	svc, mock := newMockedService(t)

	mock.ExpectQuery("SELECT (.+) FROM `vehicles`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create(1, CreateRentalInput{
		VehicleID: 42, CustomerID: 1, InchargerID: 1,
		StartDate: "2025-06-15",
	})
	require.Error(t, err)
	nf, ok := AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, "vehicle", nf.Entity)
	assert.Equal(t, uint(42), nf.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtendUnknownRental(t *testing.T) {
	svc, mock := newMockedService(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.Extend(1, 99, ExtendRentalInput{
		InchargerID: 1,
		EndDate:     "2025-07-01",
	})
	require.Error(t, err)
	nf, ok := AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, "rental", nf.Entity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsSameVehicleStatus(t *testing.T) {
	svc, mock := newMockedService(t)

	mock.ExpectQuery("SELECT (.+) FROM `vehicles`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "current_status_id"}).AddRow(3, 2))
	mock.ExpectQuery("SELECT (.+) FROM `vehicle_statuses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	_, err := svc.Create(1, CreateRentalInput{
		VehicleID: 3, CustomerID: 4, InchargerID: 5,
		TargetStatusID: 2,
		StartDate:      "2025-06-15",
	})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "target_status_id")

	// No transaction may have been opened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComingDateArchivesOriginalAndCarriesDeposits(t *testing.T) {
	svc, mock := newMockedService(t)

	comingDate := time.Now().AddDate(0, 0, 2).Format("2006-01-02")

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	mock.ExpectBegin()
	// live row locked FOR UPDATE
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference_code", "vehicle_id", "customer_id", "incharger_id",
			"creator_id", "status", "is_active", "is_latest_version",
		}).AddRow(10, "RNT-AB12CD34", 3, 4, 5, 6, models.RentalStatusNew, true, true))
	// replica row
	mock.ExpectExec("INSERT INTO `rentals`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	// active deposits copied onto the replica, originals closed out
	mock.ExpectQuery("SELECT (.+) FROM `deposits`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "rental_id", "deposit_type_id", "deposit_value", "is_active",
		}).AddRow(21, 4, 10, 7, "Passport", true))
	mock.ExpectExec("INSERT INTO `deposits`").
		WillReturnResult(sqlmock.NewResult(22, 1))
	mock.ExpectExec("UPDATE `deposits`").
		WithArgs(sqlmock.AnyArg(), false, sqlmock.AnyArg(), 21).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// vehicle pointer moves to the replica
	mock.ExpectQuery("SELECT (.+) FROM `vehicles`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "current_rental_id", "current_status_id"}).
			AddRow(3, 10, 2))
	mock.ExpectExec("UPDATE `vehicles`").
		WithArgs(11, sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// original flagged inactive/non-latest, then soft-deleted
	mock.ExpectExec("UPDATE `rentals`").
		WithArgs(false, false, sqlmock.AnyArg(), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `rentals`").
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// reload of the replica with its preloads
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference_code", "vehicle_id", "customer_id", "incharger_id",
			"creator_id", "status", "is_active", "is_latest_version",
		}).AddRow(11, "RNT-AB12CD34", 3, 4, 5, 6, models.RentalStatusAddedComingDate, true, true))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectQuery("SELECT (.+) FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow(4, "Aye Chan"))
	mock.ExpectQuery("SELECT (.+) FROM `contacts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `deposits`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "rental_id", "deposit_type_id", "deposit_value", "is_active"}).
			AddRow(22, 11, 7, "Passport", true))
	mock.ExpectQuery("SELECT (.+) FROM `deposit_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Passport"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT (.+) FROM `vehicles`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_no", "current_status_id"}).AddRow(3, "2AB-1234", 2))
	mock.ExpectQuery("SELECT (.+) FROM `vehicle_statuses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Rented"))

	got, err := svc.AddComingDate(5, 10, AddComingDateInput{
		InchargerID: 5,
		ComingDate:  comingDate,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(11), got.ID)
	assert.Equal(t, models.RentalStatusAddedComingDate, got.Status)
	require.Len(t, got.Deposits, 1)
	assert.Equal(t, "Passport", got.Deposits[0].DepositType.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtendRejectsEarlierEndDate(t *testing.T) {
	svc, mock := newMockedService(t)

	currentEnd := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "end_date", "is_active"}).
			AddRow(10, 3, currentEnd, true))
	mock.ExpectRollback()

	_, err := svc.Extend(5, 10, ExtendRentalInput{
		InchargerID: 5,
		EndDate:     "2025-07-01",
	})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "end_date")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRejectsSecondPickup(t *testing.T) {
	svc, mock := newMockedService(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "actual_start_date", "is_active"}).
			AddRow(10, 3, time.Now(), true))
	mock.ExpectRollback()

	_, err := svc.Pickup(5, 10, PickupInput{InchargerID: 5})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "rental")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnReleasesVehicleAndClosesRental(t *testing.T) {
	svc, mock := newMockedService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password"}).AddRow(5, string(hash)))
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "is_active"}).AddRow(10, 3, true))
	mock.ExpectQuery("SELECT (.+) FROM `vehicles`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "current_rental_id", "current_status_id"}).
			AddRow(3, 10, 2))
	mock.ExpectQuery("SELECT (.+) FROM `vehicle_statuses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `rentals`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "is_active"}).AddRow(10, 3, true))
	// deposits handed back
	mock.ExpectExec("UPDATE `deposits`").
		WithArgs(sqlmock.AnyArg(), false, sqlmock.AnyArg(), 10, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// vehicle freed: pointer cleared, status updated
	mock.ExpectQuery("SELECT (.+) FROM `vehicles`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "current_rental_id", "current_status_id"}).
			AddRow(3, 10, 2))
	mock.ExpectExec("UPDATE `vehicles`").
		WithArgs(nil, 1, sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// rental closed and soft-deleted, no replica row
	mock.ExpectExec("UPDATE `rentals`").
		WithArgs(sqlmock.AnyArg(), false, sqlmock.AnyArg(), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `rentals`").
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = svc.Return(5, 10, ReturnRentalInput{
		Password:       "s3cret-pass",
		TargetStatusID: 1,
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
