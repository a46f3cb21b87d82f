package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractFilename(t *testing.T) {
	assert.Equal(t, "Rental-Contract-AB1234-7.pdf", ContractFilename("AB1234", 7))
	assert.Equal(t, "Rental-Contract--12.pdf", ContractFilename("", 12))
}

func TestLoadCompanyMissingRowIsNotAnError(t *testing.T) {
	rentals, mock := newMockedService(t)
	svc := NewContractService(rentals.DB, rentals)

	mock.ExpectQuery("SELECT (.+) FROM `company_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	company, err := svc.loadCompany()
	require.NoError(t, err)
	assert.Empty(t, company.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCompanySurfacesDBErrors(t *testing.T) {
	rentals, mock := newMockedService(t)
	svc := NewContractService(rentals.DB, rentals)

	mock.ExpectQuery("SELECT (.+) FROM `company_settings`").
		WillReturnError(errors.New("connection reset"))

	_, err := svc.loadCompany()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company settings")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFormatExtraItems(t *testing.T) {
	lines := formatExtraItems([]byte(`[
		{"name": "Child seat", "quantity": 1},
		{"name": "Helmet", "quantity": 2},
		{"name": "", "quantity": 3}
	]`))
	assert.Equal(t, []string{"Child seat", "Helmet x2"}, lines)

	assert.Nil(t, formatExtraItems(nil))
	assert.Nil(t, formatExtraItems([]byte(`{}`)))
	assert.Nil(t, formatExtraItems([]byte(`not json`)))
}
