package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"guardpost.app/guardpost/core/models"
)

var testSecret = []byte("test-signing-secret")

func testUser() *models.User {
	return &models.User{ID: 7, EmployeeID: "0007", IsAdmin: true}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken(testUser(), testSecret)
	assert.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "0007", claims.EmployeeID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.Subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := CreateAccessToken(testUser(), testSecret)
	assert.NoError(t, err)

	_, err = ParseToken(token, []byte("another-secret"))
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsRefreshToken(t *testing.T) {
	refresh, err := CreateRefreshToken(testUser(), testSecret)
	assert.NoError(t, err)
	_, err = ParseAccessToken(refresh, testSecret)
	assert.Error(t, err)

	access, err := CreateAccessToken(testUser(), testSecret)
	assert.NoError(t, err)
	claims, err := ParseAccessToken(access, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "access", claims.Subject)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	access, err := CreateAccessToken(testUser(), testSecret)
	assert.NoError(t, err)
	_, err = ParseRefreshToken(access, testSecret)
	assert.Error(t, err)

	refresh, err := CreateRefreshToken(testUser(), testSecret)
	assert.NoError(t, err)
	claims, err := ParseRefreshToken(refresh, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "refresh", claims.Subject)
}
