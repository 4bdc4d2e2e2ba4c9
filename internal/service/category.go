package service

import (
	"context"
	"fmt"

	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// CategoryService is a thin layer over the category repository. Categories
// are shared across users, so there is no ownership scoping here.
type CategoryService struct {
	categories repository.CategoryRepo
}

func NewCategoryService(categories repository.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*model.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	category := &model.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, opts repository.CategoryListOptions) ([]model.Category, error) {
	return s.categories.List(ctx, opts)
}

// Update changes name and/or description. Empty strings mean "unchanged"
// for name; CreatedAt is immutable and never touched.
func (s *CategoryService) Update(ctx context.Context, id uint, name, description *string) (*model.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		category.Name = *name
	}
	if description != nil {
		category.Description = *description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.categories.Delete(ctx, id)
}
