package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/champcode/academy-api/internal/models"
)

type stubValidator struct {
	claims map[string]*models.JWTClaims
}

func (s *stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := s.claims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func newGuardedRouter(validator *stubValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := router.Group("/", Authenticate(validator))

	parent := authed.Group("/parent", RequireRoles(models.RoleParent, models.RoleAdmin))
	parent.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	student := authed.Group("/student", RequireRoles(models.RoleStudent, models.RoleAdmin))
	student.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	teacher := authed.Group("/teacher", RequireRoles(models.RoleTeacher, models.RoleAdmin))
	teacher.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	admin := authed.Group("/admin", RequireRoles(models.RoleAdmin))
	admin.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}

func perform(router *gin.Engine, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestGuardWithoutTokenIs401Everywhere(t *testing.T) {
	router := newGuardedRouter(&stubValidator{claims: map[string]*models.JWTClaims{}})

	for _, path := range []string{"/parent/dashboard", "/student/dashboard", "/teacher/dashboard", "/admin/users"} {
		assert.Equal(t, http.StatusUnauthorized, perform(router, path, ""), path)
	}
}

func TestGuardInvalidTokenIs401(t *testing.T) {
	router := newGuardedRouter(&stubValidator{claims: map[string]*models.JWTClaims{}})

	assert.Equal(t, http.StatusUnauthorized, perform(router, "/parent/dashboard", "garbage"))
}

func TestGuardParentRoleScopesPortals(t *testing.T) {
	router := newGuardedRouter(&stubValidator{claims: map[string]*models.JWTClaims{
		"parent-token": {UserID: "u-1", Role: models.RoleParent},
	}})

	assert.Equal(t, http.StatusOK, perform(router, "/parent/dashboard", "parent-token"))
	assert.Equal(t, http.StatusForbidden, perform(router, "/student/dashboard", "parent-token"))
	assert.Equal(t, http.StatusForbidden, perform(router, "/teacher/dashboard", "parent-token"))
	assert.Equal(t, http.StatusForbidden, perform(router, "/admin/users", "parent-token"))
}

func TestGuardAdminRoleReachesEveryPortal(t *testing.T) {
	router := newGuardedRouter(&stubValidator{claims: map[string]*models.JWTClaims{
		"admin-token": {UserID: "u-2", Role: models.RoleAdmin},
	}})

	for _, path := range []string{"/parent/dashboard", "/student/dashboard", "/teacher/dashboard", "/admin/users"} {
		assert.Equal(t, http.StatusOK, perform(router, path, "admin-token"), path)
	}
}

func TestGuardAccountWithoutRoleIsDeniedEverywhere(t *testing.T) {
	router := newGuardedRouter(&stubValidator{claims: map[string]*models.JWTClaims{
		"roleless-token": {UserID: "u-3"},
	}})

	for _, path := range []string{"/parent/dashboard", "/student/dashboard", "/teacher/dashboard", "/admin/users"} {
		assert.Equal(t, http.StatusForbidden, perform(router, path, "roleless-token"), path)
	}
}

func TestGuardMalformedAuthorizationHeader(t *testing.T) {
	router := newGuardedRouter(&stubValidator{claims: map[string]*models.JWTClaims{}})

	req := httptest.NewRequest(http.MethodGet, "/parent/dashboard", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
