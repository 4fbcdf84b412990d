package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// ErrNotConfigured is returned by every method when the Google client
// credentials are absent. Google login is optional for a PDV installation,
// so missing credentials must not fail startup.
var ErrNotConfigured = errors.New("google oauth is not configured")

// GoogleProfile is the subset of the userinfo response the login flow reads.
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleOAuthService drives the authorization-code flow for Google sign-in.
type GoogleOAuthService struct {
	config *oauth2.Config
}

// NewGoogleOAuthService builds the service from client credentials. With
// empty credentials the service still constructs; calls then fail with
// ErrNotConfigured.
func NewGoogleOAuthService(clientID, clientSecret, redirectURL string) *GoogleOAuthService {
	s := &GoogleOAuthService{}
	if clientID != "" && clientSecret != "" {
		s.config = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}
	return s
}

// AuthURL returns the consent screen URL carrying the given anti-forgery
// state token.
func (s *GoogleOAuthService) AuthURL(state string) (string, error) {
	if s.config == nil {
		return "", ErrNotConfigured
	}
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades the authorization code for a token and fetches the Google
// profile it grants access to.
func (s *GoogleOAuthService) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	if s.config == nil {
		return nil, ErrNotConfigured
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth code exchange failed: %w", err)
	}

	resp, err := s.config.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}

	return &profile, nil
}
