package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles administrative user management
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	RoleName  string
}

// CreateUser creates a new user with the given role
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	if input.Username != "" {
		taken, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, apperror.NewConflictError("Username already taken")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	roleName := input.RoleName
	if roleName == "" {
		roleName = "operator"
	}
	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, user.ID)
}

// GetUser retrieves a user with roles by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListUsers lists users with pagination and search
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// UpdateUserInput represents the update user input
type UpdateUserInput struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Email     *string
}

// UpdateUser updates a user's profile fields
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Email already registered")
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, user.ID)
}

// DeleteUser removes a user. Users cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	return s.userRepo.Delete(ctx, id)
}

// AssignRole grants the named role to a user
func (s *UserService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}

	if err := s.userRepo.AssignRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, userID)
}

// RemoveRole revokes the named role from a user
func (s *UserService) RemoveRole(ctx context.Context, userID uuid.UUID, roleName string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}

	if err := s.userRepo.RemoveRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, userID)
}

// ListRoles lists all roles with their permissions
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}
