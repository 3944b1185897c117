package middleware

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).Email)
	})
	r.GET("/admin", AuthMiddleware(secret), RoleMiddleware(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func token(t *testing.T, role model.UserRole) string {
	t.Helper()
	user := &model.User{Email: "someone@example.com", Role: role}
	user.ID = 1
	tok, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token(t, model.RoleUser), want: http.StatusOK},
		{name: "query", query: "?token=" + token(t, model.RoleUser), want: http.StatusOK},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()

	for role, want := range map[model.UserRole]int{
		model.RoleUser:  http.StatusForbidden,
		model.RoleAdmin: http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, string(role))
	}
}
