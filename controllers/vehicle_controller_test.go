package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateVehiclePayloadDropsOccupancyFields(t *testing.T) {
	body := []byte(`{
		"vehicleNo": "2AB-1234",
		"makeId": 3,
		"pricePerDay": 15,
		"currentLocation": "Main branch",
		"currentStatusId": 2,
		"currentRentalId": 99
	}`)

	var payload updateVehiclePayload
	require.NoError(t, json.Unmarshal(body, &payload))

	vehicle := payload.toModel(7)
	assert.Equal(t, uint(7), vehicle.ID)
	assert.Equal(t, "2AB-1234", vehicle.VehicleNo)
	require.NotNil(t, vehicle.MakeID)
	assert.Equal(t, uint(3), *vehicle.MakeID)
	assert.Equal(t, 15.0, vehicle.PricePerDay)

	// Occupancy bookkeeping belongs to the rental lifecycle and must never
	// come in through an edit payload.
	assert.Nil(t, vehicle.CurrentRentalID)
	assert.Zero(t, vehicle.CurrentStatusID)
}
