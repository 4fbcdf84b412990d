package oauth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUnconfiguredServiceRejectsCalls(t *testing.T) {
	s := NewGoogleOAuthService("", "", "")

	if _, err := s.AuthURL("state-123"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("AuthURL: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.Exchange(context.Background(), "code"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Exchange: expected ErrNotConfigured, got %v", err)
	}

	// Secret alone is not enough
	s = NewGoogleOAuthService("", "secret", "http://localhost/cb")
	if _, err := s.AuthURL("state-123"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured without client ID, got %v", err)
	}
}

func TestAuthURLCarriesState(t *testing.T) {
	s := NewGoogleOAuthService("client-id", "secret", "http://localhost/cb")

	url, err := s.AuthURL("state-123")
	if err != nil {
		t.Fatalf("auth url: %v", err)
	}
	if !strings.Contains(url, "state=state-123") {
		t.Fatalf("auth url missing state: %s", url)
	}
	if !strings.Contains(url, "client_id=client-id") {
		t.Fatalf("auth url missing client id: %s", url)
	}
}
