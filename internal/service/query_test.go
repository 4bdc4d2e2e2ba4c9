package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/testutil"
)

func TestQueryAdvisorReturnsAnswerVerbatim(t *testing.T) {
	db := testutil.NewTestDB(t)
	expenses := repository.NewExpenseRepo(db)

	provider := &fakeProvider{reply: "You spent $42.50 on food this month."}
	advisor := NewQueryAdvisor(provider, expenses, 500)

	answer, err := advisor.Answer(context.Background(), "user-a", "how much did I spend on food?")
	require.NoError(t, err)
	assert.Equal(t, "You spent $42.50 on food this month.", answer)
	assert.Equal(t, 500, provider.lastTokens)
	assert.Contains(t, provider.lastPrompt, "how much did I spend on food?")
}

func TestQueryAdvisorFlattensExpenses(t *testing.T) {
	db := testutil.NewTestDB(t)
	categories := repository.NewCategoryRepo(db)
	expenses := repository.NewExpenseRepo(db)
	seedCategories(t, categories, "Food")

	food, err := categories.GetByName(context.Background(), "Food")
	require.NoError(t, err)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, expenses.Create(context.Background(), &model.Expense{
		UserID:      "user-a",
		Amount:      42.50,
		CategoryID:  &food.ID,
		Description: "groceries",
		Notes:       "weekly shop",
		Date:        date,
	}))
	require.NoError(t, expenses.Create(context.Background(), &model.Expense{
		UserID:      "user-a",
		Amount:      15.00,
		Description: "taxi",
		Date:        date,
	}))
	// Another user's expense must never leak into the prompt.
	require.NoError(t, expenses.Create(context.Background(), &model.Expense{
		UserID:      "user-b",
		Amount:      999.99,
		Description: "someone else's yacht fuel",
		Date:        date,
	}))

	provider := &fakeProvider{reply: "ok"}
	advisor := NewQueryAdvisor(provider, expenses, 500)

	_, err = advisor.Answer(context.Background(), "user-a", "what did I buy?")
	require.NoError(t, err)

	assert.Contains(t, provider.lastPrompt, "groceries")
	assert.Contains(t, provider.lastPrompt, "42.50")
	assert.Contains(t, provider.lastPrompt, "Food")
	assert.Contains(t, provider.lastPrompt, "weekly shop")
	assert.Contains(t, provider.lastPrompt, "2026-02-01")
	// The uncategorized expense is labeled with the fallback name.
	assert.Contains(t, provider.lastPrompt, "category: Uncategorized")
	assert.NotContains(t, provider.lastPrompt, "yacht")
}

func TestQueryAdvisorWithNoExpenses(t *testing.T) {
	db := testutil.NewTestDB(t)
	expenses := repository.NewExpenseRepo(db)

	provider := &fakeProvider{reply: "You have no recorded expenses."}
	advisor := NewQueryAdvisor(provider, expenses, 500)

	answer, err := advisor.Answer(context.Background(), "user-with-nothing", "what did I spend?")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls, "an empty history still goes to the advisor")
	assert.Equal(t, "You have no recorded expenses.", answer)
}

func TestQueryAdvisorPropagatesFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	expenses := repository.NewExpenseRepo(db)

	provider := &fakeProvider{err: errors.New("upstream timeout")}
	advisor := NewQueryAdvisor(provider, expenses, 500)

	_, err := advisor.Answer(context.Background(), "user-a", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream timeout")
}
