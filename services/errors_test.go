package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("transition failed: %w", notFound("rental", 9))

	nf, ok := AsNotFound(wrapped)
	require.True(t, ok)
	assert.Equal(t, "rental", nf.Entity)
	assert.Equal(t, uint(9), nf.ID)

	_, ok = AsValidation(wrapped)
	assert.False(t, ok)
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := invalid("end_date", "end date must be after start date")

	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "end date must be after start date", verr.Fields["end_date"])
	assert.Contains(t, err.Error(), "validation failed")
}
