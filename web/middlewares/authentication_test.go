package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/security"
)

var testSecret = []byte("test-signing-secret")

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/ping", Authentication(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticationAcceptsAccessToken(t *testing.T) {
	r := testRouter()

	user := &models.User{ID: 7, EmployeeID: "0007"}
	token, err := security.CreateAccessToken(user, testSecret)
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticationRejectsRefreshToken(t *testing.T) {
	r := testRouter()

	user := &models.User{ID: 7, EmployeeID: "0007", IsAdmin: true}
	refresh, err := security.CreateRefreshToken(user, testSecret)
	require.NoError(t, err)

	w := get(r, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticationRejectsMissingOrMalformedHeader(t *testing.T) {
	r := testRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not-a-token").Code)
}
