package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/testutil"
)

type expenseFixture struct {
	db         *gorm.DB
	provider   *fakeProvider
	categories repository.CategoryRepo
	expenses   repository.ExpenseRepo
	service    *ExpenseService
	userID     string
}

func newExpenseFixture(t *testing.T, provider *fakeProvider, threshold float64) *expenseFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	categories := repository.NewCategoryRepo(db)
	expenses := repository.NewExpenseRepo(db)
	categorizer := NewCategorizer(provider, categories, 100)

	return &expenseFixture{
		db:         db,
		provider:   provider,
		categories: categories,
		expenses:   expenses,
		service:    NewExpenseService(expenses, categories, categorizer, threshold),
		userID:     "user-a",
	}
}

func testDate() time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (f *expenseFixture) categoryID(t *testing.T, name string) uint {
	t.Helper()
	category, err := f.categories.GetByName(context.Background(), name)
	require.NoError(t, err)
	return category.ID
}

func TestCreateWithExplicitCategorySkipsAdvisor(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food", "Transport")
	foodID := f.categoryID(t, "Food")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      12.00,
		CategoryID:  &foodID,
		Description: "lunch",
		Date:        testDate(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, provider.calls, "advisor must not be invoked when a category is supplied")
	require.NotNil(t, expense.CategoryID)
	assert.Equal(t, foodID, *expense.CategoryID)
	assert.Nil(t, expense.AISuggestedCategoryID)
	assert.Nil(t, expense.AIConfidence)
}

func TestCreateAutoAssignsAboveThreshold(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food", "Transport")
	foodID := f.categoryID(t, "Food")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      12.00,
		Description: "lunch at the deli",
		Date:        testDate(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	require.NotNil(t, expense.AISuggestedCategoryID)
	assert.Equal(t, foodID, *expense.AISuggestedCategoryID)
	require.NotNil(t, expense.AIConfidence)
	assert.InDelta(t, 0.85, *expense.AIConfidence, 1e-9)
	// 0.85 > 0.8: auto-assigned.
	require.NotNil(t, expense.CategoryID)
	assert.Equal(t, foodID, *expense.CategoryID)
}

func TestCreateSuggestionBelowThresholdIsNotAssigned(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	// Threshold above the exact-match confidence: the suggestion resolves
	// but must not be auto-assigned.
	f := newExpenseFixture(t, provider, 0.9)
	seedCategories(t, f.categories, "Food")
	foodID := f.categoryID(t, "Food")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      12.00,
		Description: "lunch",
		Date:        testDate(),
	})
	require.NoError(t, err)

	require.NotNil(t, expense.AISuggestedCategoryID)
	assert.Equal(t, foodID, *expense.AISuggestedCategoryID)
	require.NotNil(t, expense.AIConfidence)
	assert.InDelta(t, 0.85, *expense.AIConfidence, 1e-9)
	assert.Nil(t, expense.CategoryID)
}

func TestCreateUnresolvableSuggestionLeavesAIFieldsUnset(t *testing.T) {
	provider := &fakeProvider{reply: "Groceries"} // not a stored category
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      12.00,
		Description: "weekly shop",
		Date:        testDate(),
	})
	require.NoError(t, err)

	assert.Nil(t, expense.CategoryID)
	assert.Nil(t, expense.AISuggestedCategoryID)
	assert.Nil(t, expense.AIConfidence)
}

func TestCreateSurvivesAdvisorFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("service unavailable")}
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      9.99,
		Description: "lunch",
		Date:        testDate(),
	})
	require.NoError(t, err, "advisor failure must never fail expense creation")

	assert.Nil(t, expense.CategoryID)
	assert.Nil(t, expense.AISuggestedCategoryID)
	assert.Nil(t, expense.AIConfidence)
}

func TestCreateRejectsBadAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{name: "zero", amount: 0},
		{name: "negative", amount: -5},
		{name: "below one cent", amount: 0.005},
		{name: "three decimal places", amount: 10.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{reply: "Food"}
			f := newExpenseFixture(t, provider, 0.8)

			_, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
				Amount:      tt.amount,
				Description: "anything",
				Date:        testDate(),
			})
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, provider.calls)
		})
	}
}

func TestCreateRejectsUnknownExplicitCategory(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	f := newExpenseFixture(t, provider, 0.8)

	missing := uint(999)
	_, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      5.00,
		CategoryID:  &missing,
		Description: "lunch",
		Date:        testDate(),
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, provider.calls)
}

func TestOwnershipScoping(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food")

	expense, err := f.service.Create(context.Background(), "user-a", ExpenseInput{
		Amount:      10.00,
		Description: "lunch",
		Date:        testDate(),
	})
	require.NoError(t, err)

	// Another user addressing the row by ID sees "not found", for reads,
	// updates and deletes alike.
	_, err = f.service.Get(context.Background(), "user-b", expense.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	newNotes := "mine now"
	_, err = f.service.Update(context.Background(), "user-b", expense.ID, ExpenseUpdate{Notes: &newNotes})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = f.service.Delete(context.Background(), "user-b", expense.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The owner still can.
	got, err := f.service.Get(context.Background(), "user-a", expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.ID, got.ID)
}

func TestUpdateDoesNotTouchAIFields(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food", "Transport")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      10.00,
		Description: "lunch",
		Date:        testDate(),
	})
	require.NoError(t, err)
	require.NotNil(t, expense.AIConfidence)

	newAmount := 42.50
	transportID := f.categoryID(t, "Transport")
	updated, err := f.service.Update(context.Background(), f.userID, expense.ID, ExpenseUpdate{
		Amount:     &newAmount,
		CategoryID: &transportID,
	})
	require.NoError(t, err)

	assert.InDelta(t, 42.50, updated.Amount, 1e-9)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, transportID, *updated.CategoryID)
	// AI fields survive untouched and the advisor was not re-invoked.
	require.NotNil(t, updated.AISuggestedCategoryID)
	assert.Equal(t, *expense.AISuggestedCategoryID, *updated.AISuggestedCategoryID)
	require.NotNil(t, updated.AIConfidence)
	assert.InDelta(t, *expense.AIConfidence, *updated.AIConfidence, 1e-9)
	assert.Equal(t, 1, provider.calls)
}

func TestUpdateDetachesCategoryWithZero(t *testing.T) {
	provider := &fakeProvider{reply: "Food"}
	f := newExpenseFixture(t, provider, 0.8)
	seedCategories(t, f.categories, "Food")
	foodID := f.categoryID(t, "Food")

	expense, err := f.service.Create(context.Background(), f.userID, ExpenseInput{
		Amount:      10.00,
		CategoryID:  &foodID,
		Description: "lunch",
		Date:        testDate(),
	})
	require.NoError(t, err)

	var zero uint
	updated, err := f.service.Update(context.Background(), f.userID, expense.ID, ExpenseUpdate{CategoryID: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}
