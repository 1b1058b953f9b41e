package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService("test-secret-key-for-testing-purposes", time.Hour)
}

func TestNewJWTService_DefaultExpiry(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewJWTService("secret", 0).TokenExpiry())
	assert.Equal(t, time.Hour, newTestJWTService().TokenExpiry())
}

func TestJWTService_GenerateToken_Success(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateToken("admin@grandefamilia.com", RoleAdmin)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(61*time.Minute)))
}

func TestJWTService_ValidateToken_Valid(t *testing.T) {
	service := newTestJWTService()

	token, _, err := service.GenerateToken("admin@grandefamilia.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, "admin@grandefamilia.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin@grandefamilia.com", claims.Subject)
	assert.Equal(t, "fashion-catalog", claims.Issuer)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	// Create a service with very short expiry
	service := NewJWTService("test-secret", time.Millisecond)

	token, _, err := service.GenerateToken("admin@grandefamilia.com", RoleAdmin)
	require.NoError(t, err)

	// Wait for token to expire
	time.Sleep(1100 * time.Millisecond)

	claims, err := service.ValidateToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Invalid(t *testing.T) {
	service := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
		{"base64 pseudo token", "eyJlbWFpbCI6ImFkbWluQGdyYW5kZWZhbWlsaWEuY29tIn0="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateToken_WrongSignature(t *testing.T) {
	service1 := NewJWTService("secret-key-1", time.Hour)
	service2 := NewJWTService("secret-key-2", time.Hour)

	token, _, err := service1.GenerateToken("admin@grandefamilia.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := service2.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_WrongAlgorithm(t *testing.T) {
	service := newTestJWTService()

	// Create a token with a different algorithm (none)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Email: "admin@grandefamilia.com",
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fashion-catalog",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := service.ValidateToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_ForeignIssuer(t *testing.T) {
	secret := []byte("shared-secret")
	service := NewJWTService(string(secret), time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "admin@grandefamilia.com",
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = service.ValidateToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ============================================
// Admin Tests
// ============================================

func TestNewAdmin_HashesPlaintextPassword(t *testing.T) {
	admin, err := NewAdmin(" admin@grandefamilia.com ", "admin123", "")

	require.NoError(t, err)
	assert.Equal(t, "admin@grandefamilia.com", admin.Email)
	assert.NotEqual(t, "admin123", admin.PasswordHash)
	assert.NoError(t, admin.Authenticate("ADMIN@grandefamilia.com", "admin123"))
}

func TestNewAdmin_UsesGivenHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	admin, err := NewAdmin("admin@grandefamilia.com", "ignored", hash)

	require.NoError(t, err)
	assert.Equal(t, hash, admin.PasswordHash)
	assert.NoError(t, admin.Authenticate("admin@grandefamilia.com", "s3cret-pass"))
	assert.ErrorIs(t, admin.Authenticate("admin@grandefamilia.com", "ignored"), ErrInvalidCredentials)
}

func TestNewAdmin_Errors(t *testing.T) {
	_, err := NewAdmin("", "admin123", "")
	assert.Error(t, err)

	_, err = NewAdmin("admin@grandefamilia.com", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = NewAdmin("admin@grandefamilia.com", "", "plaintext-not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestAdmin_Authenticate_WrongEmail(t *testing.T) {
	admin, err := NewAdmin("admin@grandefamilia.com", "admin123", "")
	require.NoError(t, err)

	assert.ErrorIs(t, admin.Authenticate("other@grandefamilia.com", "admin123"), ErrInvalidCredentials)
	assert.ErrorIs(t, admin.Authenticate("admin@grandefamilia.com", "admin1234"), ErrInvalidCredentials)
}
