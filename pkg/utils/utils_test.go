package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("abc123"))
	assert.Error(t, ValidatePassword("ab12"))
	assert.Error(t, ValidatePassword("abcdefgh"))
	assert.Error(t, ValidatePassword("12345678"))
}

func TestGenerateResetToken(t *testing.T) {
	plain, hashed, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, plain, 40)
	assert.Equal(t, HashResetToken(plain), hashed)
	assert.NotEqual(t, plain, hashed)

	other, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, plain, other)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, expiresAt, err := issuer.Sign("64b7f0c2a1e4d3b2c1a09f8e", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1e4d3b2c1a09f8e", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenIssuer_DeterministicForSameInstant(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := NewTokenIssuer("s", time.Minute)
	issuer.now = func() time.Time { return fixed }

	a, _, err := issuer.Sign("u1", "standard")
	require.NoError(t, err)
	b, _, err := issuer.Sign("u1", "standard")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	token, _, err := issuer.Sign("u1", "standard")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Minute).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("test-secret", time.Minute)
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		other, _, err := issuer.Sign("u2", "admin")
		require.NoError(t, err)

		orig := strings.Split(token, ".")
		forged := strings.Split(other, ".")
		_, err = issuer.Verify(forged[0] + "." + forged[1] + "." + orig[2])
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Role: "admin"})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

type registration struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,user_role"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Career   string `json:"career" validate:"omitempty,career"`
	MinSkill string `json:"minimumSkill" validate:"omitempty,skill_level"`
}

func TestValidateStruct_ListsOffendingFields(t *testing.T) {
	err := ValidateStruct(&registration{Email: "nope", Role: "root"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Please add a name")
	assert.Contains(t, msg, "Please add a valid email")
	assert.Contains(t, msg, "role is invalid")
	assert.Equal(t, 2, strings.Count(msg, ", "))
}

func TestValidateStruct_CustomTags(t *testing.T) {
	ok := registration{
		Name:     "Jane",
		Email:    "jane@example.com",
		Role:     "standard",
		Phone:    "(111) 111-1111",
		Career:   "UI/UX",
		MinSkill: "advanced",
	}
	assert.NoError(t, ValidateStruct(&ok))

	bad := ok
	bad.MinSkill = "expert"
	assert.Error(t, ValidateStruct(&bad))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Devworks & Co", SanitizeString("  <b>Devworks</b> & Co \x00"))
	assert.Equal(t, "jane@example.com", SanitizeEmail("  Jane@Example.COM "))
	assert.Equal(t, "(111) 111-1111", SanitizePhone("(111) 111-1111<x>"))
	assert.Equal(t, "line one\nline two", SanitizeText("line one\nline two"))

	_, err := ValidateAndSanitizeEmail("not-an-email")
	assert.Error(t, err)
}
