package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refreshToken, err := GenerateJWT("64f000000000000000000001", "admin@vivanet.test", "admin")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if refreshToken == "" {
		t.Error("refresh token is empty")
	}

	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parsing issued token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("issued token is not valid")
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Errorf("userId = %q", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.Email != "admin@vivanet.test" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, _, err := GenerateJWT("id", "a@b.c", "member"); err == nil {
		t.Fatal("GenerateJWT succeeded without JWT_SECRET")
	}
}
