package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "op@loja.com", []string{"operator"}, []string{"operate-pos"})
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != userID || claims.Email != "op@loja.com" {
		t.Fatalf("claims = %s/%s, want %s/op@loja.com", claims.UserID, claims.Email, userID)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != "operate-pos" {
		t.Fatalf("permissions = %v, want [operate-pos]", claims.Permissions)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "op@loja.com", nil, nil)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if _, err := m.ValidateRefreshToken(access); err == nil {
		t.Fatal("expected an access token to be rejected by the refresh endpoint")
	}

	refresh, err := m.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	got, err := m.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if got != userID {
		t.Fatalf("user = %s, want %s", got, userID)
	}
}

func TestTokenFromWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := other.GenerateAccessToken(uuid.New(), "op@loja.com", nil, nil)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expected token signed with another secret to fail validation")
	}
}
