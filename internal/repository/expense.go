package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spendwise/spendwise/internal/model"
)

// ExpenseFilter narrows a caller-scoped expense listing. UserID is set by
// the service from the authenticated caller, never from client input.
type ExpenseFilter struct {
	UserID     string
	CategoryID *uint
	Date       *time.Time // exact calendar date
	Search     string     // matches description or notes, substring
	OrderBy    string     // "date", "amount" or "created_at"; empty means date
	Desc       bool
	Page       int
	PageSize   int
}

type ExpenseRepo interface {
	Create(ctx context.Context, expense *model.Expense) error
	// GetByID returns ErrNotFound for rows owned by a different user.
	GetByID(ctx context.Context, userID string, id uint) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, userID string, id uint) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepo {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return translate(r.db.WithContext(ctx).Create(expense).Error)
}

func (r *expenseRepo) GetByID(ctx context.Context, userID string, id uint) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("AISuggestedCategory").
		Where("user_id = ?", userID).
		First(&expense, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

func (r *expenseRepo) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Expense{}).
		Where("user_id = ?", filter.UserID)

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Date != nil {
		// Half-open day range; comparing a DATE column against a bare
		// string behaves differently across drivers.
		day := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		q = q.Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("description LIKE ? OR notes LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Unknown ordering fields fall back to the default, never the query.
	order := "date DESC, created_at DESC"
	switch filter.OrderBy {
	case "amount", "created_at", "date":
		order = filter.OrderBy
		if filter.Desc {
			order += " DESC"
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		q = q.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var expenses []model.Expense
	err := q.Preload("Category").Order(order).Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// ListByUser fetches every expense a user owns, category resolved, oldest
// first. The query advisor flattens this into its prompt.
func (r *expenseRepo) ListByUser(ctx context.Context, userID string) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("date, created_at").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	return translate(r.db.WithContext(ctx).Save(expense).Error)
}

func (r *expenseRepo) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Expense{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
