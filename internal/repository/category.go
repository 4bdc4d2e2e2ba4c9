package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/spendwise/spendwise/internal/model"
)

// CategoryListOptions narrows and orders a category listing.
type CategoryListOptions struct {
	Search  string // matches name or description, substring
	OrderBy string // "name" or "created_at"; empty means name
	Desc    bool
}

type CategoryRepo interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context, opts CategoryListOptions) ([]model.Category, error)
	ListNames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context, opts CategoryListOptions) ([]model.Category, error) {
	q := r.db.WithContext(ctx).Model(&model.Category{})

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	order := "name"
	if opts.OrderBy == "created_at" {
		order = "created_at"
	}
	if opts.Desc {
		order += " DESC"
	}

	var categories []model.Category
	if err := q.Order(order).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error)
}

// Delete removes a category and nulls out all expense references to it,
// both assigned and AI-suggested, in one transaction. Expenses themselves
// are never deleted with their category. The nulling is explicit rather
// than left to driver-level foreign key actions so MySQL and the SQLite
// test database behave identically.
func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Expense{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Expense{}).
			Where("ai_suggested_category_id = ?", id).
			Update("ai_suggested_category_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
