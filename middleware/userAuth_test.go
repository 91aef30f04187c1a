package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/larrybwosi/realstate-sub001/config"
	"github.com/larrybwosi/realstate-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthTenantMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenantId": c.GetString("tenantID")})
	})
	return r
}

func getProtected(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsPlatformToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := newAuthedRouter()

	token, err := utils.GenerateToken("tenant-42", "tenant@example.com", time.Hour)
	require.NoError(t, err)

	w := getProtected(r, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant-42")
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := newAuthedRouter()

	w := getProtected(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := newAuthedRouter()

	token, err := utils.GenerateToken("tenant-42", "tenant@example.com", -time.Minute)
	require.NoError(t, err)

	w := getProtected(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsForgedToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := newAuthedRouter()

	forged, err := utils.GenerateToken("tenant-42", "tenant@example.com", time.Hour)
	require.NoError(t, err)
	config.AppConfig.JWTSecret = "rotated-secret"

	w := getProtected(r, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
