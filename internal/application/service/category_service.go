package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/utils"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*entity.Category, error) {
	slug := utils.Slugify(name)

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.Category{
		UserID: userID,
		Name:   name,
		Slug:   slug,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category by slug
func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists the user's categories
func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx, userID)
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, userID uuid.UUID, slug, name string, isAdmin bool) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	if !isAdmin && category.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	newSlug := utils.Slugify(name)
	if newSlug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Category already exists")
		}
	}

	category.Name = name
	category.Slug = newSlug

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory deletes a category. Products keep their rows and fall back
// to no category.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, slug string, isAdmin bool) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}

	if !isAdmin && category.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}
