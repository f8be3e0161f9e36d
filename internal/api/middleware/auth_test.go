package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jammanage-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(jwtUtil *jwt.JWTUtil, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/")
	group.Use(NewAuthMiddleware(jwtUtil))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("user_id"),
			"role":   c.GetString("role"),
		})
	})

	return router
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newAuthTestRouter(jwt.NewJWTUtil("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	router := newAuthTestRouter(jwt.NewJWTUtil("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("secret", time.Hour)
	router := newAuthTestRouter(jwtUtil)

	token, err := jwtUtil.GenerateToken("507f1f77bcf86cd799439011", "owner@example.com", "owner")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "507f1f77bcf86cd799439011")
}

func TestAuthMiddlewareAcceptsBareToken(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("secret", time.Hour)
	router := newAuthTestRouter(jwtUtil)

	token, err := jwtUtil.GenerateToken("id", "a@b.c", "owner")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("secret", time.Hour)
	router := newAuthTestRouter(jwtUtil, "owner")

	staffToken, err := jwtUtil.GenerateToken("id", "staff@example.com", "staff")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("secret", time.Hour)
	router := newAuthTestRouter(jwtUtil, "owner")

	ownerToken, err := jwtUtil.GenerateToken("id", "owner@example.com", "owner")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
