package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 7*24*time.Hour)

	token, err := m.GenerateAccessToken(42, "user@example.com", "루돌프")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "루돌프", claims.Nickname)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	m := NewManager("secret-a", time.Hour, 7*24*time.Hour)
	other := NewManager("secret-b", time.Hour, 7*24*time.Hour)

	token, err := m.GenerateAccessToken(1, "user@example.com", "nick")
	assert.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken(1, "user@example.com", "nick")
	assert.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyGarbageToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 7*24*time.Hour)

	_, err := m.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
