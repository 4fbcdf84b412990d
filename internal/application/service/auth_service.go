package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/email"
	"github.com/mvcardoso/pdv-api/pkg/oauth"
	"github.com/mvcardoso/pdv-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	roleRepo          repository.RoleRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	emailService      *email.EmailService
	googleOAuth       *oauth.GoogleOAuthService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	emailService *email.EmailService,
	googleOAuth *oauth.GoogleOAuthService,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		roleRepo:          roleRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		emailService:      emailService,
		googleOAuth:       googleOAuth,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// issueTokens loads the user with roles and generates an access/refresh pair
func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	roles := make([]string, 0)
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
	}
	permissions := user.GetPermissions()

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, roles, permissions)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// Username defaults to the email local part
	username := input.Email
	if idx := strings.IndexByte(input.Email, '@'); idx > 0 {
		username = input.Email[:idx]
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  username,
		Email:     input.Email,
		Password:  hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Assign default "user" role
	defaultRole, err := s.roleRepo.GetByName(ctx, "user")
	if err != nil {
		return user, nil
	}
	if defaultRole != nil {
		_ = s.userRepo.AssignRole(ctx, user.ID, defaultRole.ID)
	}

	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(ctx, userID)
}

// GoogleAuthURL returns the Google consent screen URL for the given state
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	url, err := s.googleOAuth.AuthURL(state)
	if err != nil {
		return "", apperror.NewBadRequestError("Google login is not configured")
	}
	return url, nil
}

// GoogleLogin completes the OAuth code exchange and signs the user in,
// creating an account on first login.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	info, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrNotConfigured) {
			return nil, apperror.NewBadRequestError("Google login is not configured")
		}
		return nil, apperror.ErrInvalidCredentials
	}
	if !info.EmailVerified {
		return nil, apperror.NewBadRequestError("Google account email is not verified")
	}

	user, err := s.userRepo.GetByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Link to an existing account with the same email, if any
		user, err = s.userRepo.GetByEmail(ctx, info.Email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.GoogleID = &info.ID
			if user.Photo == nil && info.Picture != "" {
				user.Photo = &info.Picture
			}
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
	}

	if user == nil {
		username := info.Email
		if idx := strings.IndexByte(info.Email, '@'); idx > 0 {
			username = info.Email[:idx]
		}
		user = &entity.User{
			FirstName: info.GivenName,
			LastName:  info.FamilyName,
			Username:  username,
			Email:     info.Email,
			GoogleID:  &info.ID,
		}
		if info.Picture != "" {
			user.Photo = &info.Picture
		}
		if user.FirstName == "" {
			user.FirstName = info.Name
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}

		if defaultRole, err := s.roleRepo.GetByName(ctx, "user"); err == nil && defaultRole != nil {
			_ = s.userRepo.AssignRole(ctx, user.ID, defaultRole.ID)
		}
	}

	return s.issueTokens(ctx, user.ID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID       uuid.UUID
	FirstName    string
	LastName     string
	Username     string
	Photo        *string
	StoreName    *string
	StoreAddress *string
	StorePhone   *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	// Check if username is taken by another user
	if input.Username != "" && input.Username != user.Username {
		existingUser, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if existingUser != nil && existingUser.ID != user.ID {
			return nil, apperror.NewConflictError("Username already taken")
		}
		user.Username = input.Username
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}
	if input.StoreName != nil {
		user.StoreName = input.StoreName
	}
	if input.StoreAddress != nil {
		user.StoreAddress = input.StoreAddress
	}
	if input.StorePhone != nil {
		user.StorePhone = input.StorePhone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPasswordInput represents the forgot password input
type ForgotPasswordInput struct {
	Email string
}

// ForgotPassword initiates the password reset process
func (s *AuthService) ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error {
	// Lookup failures are swallowed to prevent email enumeration
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil
	}
	if user == nil {
		return nil
	}

	// Delete any existing tokens for this email
	_ = s.passwordResetRepo.DeleteByEmail(ctx, input.Email)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	token := hex.EncodeToString(tokenBytes)

	resetToken := &entity.PasswordResetToken{
		Email:     input.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		Used:      false,
	}

	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(input.Email, token); err != nil {
		return err
	}

	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

// ResetPassword resets the user's password using a valid token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	resetToken, err := s.passwordResetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if resetToken == nil {
		return apperror.NewBadRequestError("Invalid or expired reset token")
	}

	if resetToken.Email != input.Email {
		return apperror.NewBadRequestError("Invalid or expired reset token")
	}

	if !resetToken.IsValid() {
		return apperror.NewBadRequestError("Invalid or expired reset token")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewBadRequestError("Invalid or expired reset token")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Token cleanup failures do not fail the reset; the password is already changed
	if err := s.passwordResetRepo.MarkAsUsed(ctx, input.Token); err != nil {
		return nil
	}
	_ = s.passwordResetRepo.DeleteByEmail(ctx, input.Email)

	return nil
}
