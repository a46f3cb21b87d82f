package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRejectsTakenUsername(t *testing.T) {
	rentals, mock := newMockedService(t)
	svc := NewUserService(rentals.DB)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "maung"))

	_, err := svc.Create(CreateUserInput{Username: "maung", Password: "longenough"})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "username")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserSurfacesUsernameLookupError(t *testing.T) {
	rentals, mock := newMockedService(t)
	svc := NewUserService(rentals.DB)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnError(errors.New("connection reset"))

	_, err := svc.Create(CreateUserInput{Username: "maung", Password: "longenough"})
	require.Error(t, err)
	_, isValidation := AsValidation(err)
	assert.False(t, isValidation)
	assert.Contains(t, err.Error(), "failed to check username")

	assert.NoError(t, mock.ExpectationsWereMet())
}
