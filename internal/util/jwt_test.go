package util

import (
	"course_hub_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "ada@example.com", Role: model.RoleAdmin}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestParseJWTRejects(t *testing.T) {
	user := &model.User{Email: "ada@example.com", Role: model.RoleUser}

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	valid, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "garbage", token: "not-a-token", secret: "secret"},
		{name: "expired", token: expired, secret: "secret"},
		{name: "wrong secret", token: valid, secret: "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}
