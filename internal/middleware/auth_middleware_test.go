package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bus-tracker-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("", JWTAuth())
	protected.GET("/whoami", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	operator := protected.Group("", RequireRole("bus_operator"))
	operator.GET("/operator-only", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuth_MissingToken(t *testing.T) {
	r := setupAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_BadFormat(t *testing.T) {
	r := setupAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := setupAuthRouter()

	token, err := utils.GenerateJWT(7, "bus_operator")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"bus_operator"`)
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := setupAuthRouter()

	operatorToken, err := utils.GenerateJWT(1, "bus_operator")
	require.NoError(t, err)
	commuterToken, err := utils.GenerateJWT(2, "commuter")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/operator-only", nil)
	req.Header.Set("Authorization", "Bearer "+operatorToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/operator-only", nil)
	req.Header.Set("Authorization", "Bearer "+commuterToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
