package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dmaraujo/trainerhub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const middlewareTestSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signTestToken(t *testing.T, secret string, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "trainerhub",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProtectedRouter() *gin.Engine {
	router := gin.New()
	protected := router.Group("")
	protected.Use(AuthMiddleware(middlewareTestSecret))
	protected.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	protected.GET("/coach-only", RoleMiddleware(domain.RoleCoach), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := newProtectedRouter()

	w := doRequest(router, "/open", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := newProtectedRouter()

	w := doRequest(router, "/open", "NotBearer whatever")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "/open", "Bearer")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := newProtectedRouter()

	w := doRequest(router, "/open", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid JWT signed with the wrong secret.
	wrongKey := signTestToken(t, "other-secret", domain.RoleCoach, time.Hour)
	w = doRequest(router, "/open", "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	router := newProtectedRouter()

	expired := signTestToken(t, middlewareTestSecret, domain.RoleCoach, -time.Minute)
	w := doRequest(router, "/open", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := newProtectedRouter()

	token := signTestToken(t, middlewareTestSecret, domain.RoleCoach, time.Hour)
	w := doRequest(router, "/open", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	router := newProtectedRouter()

	coachToken := signTestToken(t, middlewareTestSecret, domain.RoleCoach, time.Hour)
	w := doRequest(router, "/coach-only", "Bearer "+coachToken)
	assert.Equal(t, http.StatusOK, w.Code)

	studentToken := signTestToken(t, middlewareTestSecret, domain.RoleStudent, time.Hour)
	w = doRequest(router, "/coach-only", "Bearer "+studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
