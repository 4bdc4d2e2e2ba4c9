package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// ExpenseInput carries the client-writable fields of a new expense. The AI
// fields have no counterpart here on purpose: they are system-written only.
type ExpenseInput struct {
	Amount      float64
	CategoryID  *uint
	Description string
	Notes       string
	Date        time.Time
}

// ExpenseUpdate holds partial updates; nil means "leave unchanged".
// A CategoryID of 0 detaches the expense from its category.
type ExpenseUpdate struct {
	Amount      *float64
	CategoryID  *uint
	Description *string
	Notes       *string
	Date        *time.Time
}

// ExpenseService owns expense CRUD and the AI enrichment step on creation.
// Every read and mutation is scoped to the owning user; a foreign row is
// indistinguishable from a missing one.
type ExpenseService struct {
	expenses    repository.ExpenseRepo
	categories  repository.CategoryRepo
	categorizer *Categorizer
	threshold   float64
}

func NewExpenseService(expenses repository.ExpenseRepo, categories repository.CategoryRepo, categorizer *Categorizer, autoAssignThreshold float64) *ExpenseService {
	return &ExpenseService{
		expenses:    expenses,
		categories:  categories,
		categorizer: categorizer,
		threshold:   autoAssignThreshold,
	}
}

// Create validates and persists a new expense. When no category is given it
// runs the enrichment step first; enrichment failures are logged and
// absorbed, never allowed to fail the creation.
func (s *ExpenseService) Create(ctx context.Context, userID string, input ExpenseInput) (*model.Expense, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	expense := &model.Expense{
		UserID:      userID,
		Amount:      input.Amount,
		Description: input.Description,
		Notes:       input.Notes,
		Date:        input.Date,
	}

	if input.CategoryID != nil {
		// Explicit category: verify it exists and skip the advisor entirely.
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %d does not exist", ErrValidation, *input.CategoryID)
			}
			return nil, err
		}
		expense.CategoryID = input.CategoryID
	} else {
		s.enrich(ctx, expense)
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	// Reload so category associations come back resolved.
	return s.expenses.GetByID(ctx, userID, expense.ID)
}

// enrich asks the categorization advisor for a suggestion and, when the
// suggested name resolves to a stored category, records it on the expense.
// Above the auto-assign threshold the suggestion also becomes the assigned
// category. All failures degrade to "no suggestion".
func (s *ExpenseService) enrich(ctx context.Context, expense *model.Expense) {
	suggestion, err := s.categorizer.Suggest(ctx, expense.Description, expense.Notes, expense.Amount)
	if err != nil {
		slog.Error("expense categorization failed", "error", err)
		return
	}
	if suggestion.Name == "" {
		return
	}

	category, err := s.categories.GetByName(ctx, suggestion.Name)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("resolving suggested category failed", "name", suggestion.Name, "error", err)
		}
		return
	}

	confidence := suggestion.Confidence
	expense.AISuggestedCategoryID = &category.ID
	expense.AIConfidence = &confidence
	if confidence > s.threshold {
		expense.CategoryID = &category.ID
	}
	slog.Info("expense categorized",
		"category", category.Name,
		"confidence", confidence,
		"auto_assigned", confidence > s.threshold)
}

func (s *ExpenseService) Get(ctx context.Context, userID string, id uint) (*model.Expense, error) {
	return s.expenses.GetByID(ctx, userID, id)
}

func (s *ExpenseService) List(ctx context.Context, filter repository.ExpenseFilter) ([]model.Expense, int64, error) {
	return s.expenses.List(ctx, filter)
}

// Update applies a partial update to an owned expense. The AI fields are
// write-once at creation and are never modified here, and an update never
// re-triggers the advisor.
func (s *ExpenseService) Update(ctx context.Context, userID string, id uint, update ExpenseUpdate) (*model.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Amount != nil {
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *update.Amount
	}
	if update.CategoryID != nil {
		if *update.CategoryID == 0 {
			expense.CategoryID = nil
		} else {
			if _, err := s.categories.GetByID(ctx, *update.CategoryID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%w: category %d does not exist", ErrValidation, *update.CategoryID)
				}
				return nil, err
			}
			expense.CategoryID = update.CategoryID
		}
	}
	if update.Description != nil {
		if *update.Description == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		expense.Description = *update.Description
	}
	if update.Notes != nil {
		expense.Notes = *update.Notes
	}
	if update.Date != nil {
		expense.Date = *update.Date
	}

	// Drop preloaded associations so Save writes only column values.
	expense.Category = nil
	expense.AISuggestedCategory = nil

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return s.expenses.GetByID(ctx, userID, id)
}

func (s *ExpenseService) Delete(ctx context.Context, userID string, id uint) error {
	return s.expenses.Delete(ctx, userID, id)
}

// validateAmount enforces the storage contract: strictly positive, at least
// one cent, at most two fractional digits.
func validateAmount(amount float64) error {
	if amount < 0.01 {
		return fmt.Errorf("%w: amount must be at least 0.01", ErrValidation)
	}
	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return fmt.Errorf("%w: amount must have at most two decimal places", ErrValidation)
	}
	return nil
}
