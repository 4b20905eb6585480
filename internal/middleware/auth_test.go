package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, role string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id":  float64(42),
		"username": "alice",
		"role":     role,
		"exp":      time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/admin", AuthMiddleware(), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		_, authed := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "not-a-token").Code)

	expired := testToken(t, "user", -time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", expired).Code)

	valid := testToken(t, "user", time.Hour)
	assert.Equal(t, http.StatusOK, get(r, "/protected", valid).Code)
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter()

	user := testToken(t, "user", time.Hour)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", user).Code)

	admin := testToken(t, "admin", time.Hour)
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newAuthRouter()

	// No token: the request still goes through.
	assert.Equal(t, http.StatusOK, get(r, "/open", "").Code)

	// A garbage token is simply ignored.
	assert.Equal(t, http.StatusOK, get(r, "/open", "garbage").Code)

	valid := testToken(t, "user", time.Hour)
	assert.Equal(t, http.StatusOK, get(r, "/open", valid).Code)
}
