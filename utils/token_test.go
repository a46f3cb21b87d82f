package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("not.a.token")
	assert.Error(t, err)

	_, err = ParseAccessToken("")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	token, err := GenerateAccessToken(7)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ParseAccessToken(tampered)
	assert.Error(t, err)
}
