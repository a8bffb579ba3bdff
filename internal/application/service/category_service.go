package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
	"github.com/mwaniki/salepoint-api/pkg/pagination"
	"github.com/mwaniki/salepoint-api/pkg/utils"
)

// CategoryService handles category operations
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

// ListCategories lists categories for a user
func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Category], error) {
	categories, total, err := s.categoryRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(categories, pag), nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, userID uuid.UUID, slug, name string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	if category.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	newSlug := utils.Slugify(name)
	if newSlug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
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

// DeleteCategory deletes a category
func (s *CategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, slug string) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}

	if category.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}
