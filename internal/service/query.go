package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spendwise/spendwise/internal/infrastructure/llm"
	"github.com/spendwise/spendwise/internal/repository"
)

// QueryAdvisor answers free-text questions about a user's expense history.
// It flattens every expense the user owns into a compact record list, embeds
// that plus the question in one prompt, and returns the completion verbatim.
// Failures propagate as errors; the API layer turns them into a server error
// rather than dressing them up as a successful answer.
type QueryAdvisor struct {
	provider  llm.Provider
	expenses  repository.ExpenseRepo
	maxTokens int
}

func NewQueryAdvisor(provider llm.Provider, expenses repository.ExpenseRepo, maxTokens int) *QueryAdvisor {
	return &QueryAdvisor{
		provider:  provider,
		expenses:  expenses,
		maxTokens: maxTokens,
	}
}

func (q *QueryAdvisor) Answer(ctx context.Context, userID, question string) (string, error) {
	expenses, err := q.expenses.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load expenses: %w", err)
	}

	var records strings.Builder
	for _, e := range expenses {
		fmt.Fprintf(&records, "- description: %s, amount: %.2f, category: %s, date: %s, notes: %s\n",
			e.Description, e.Amount, e.CategoryName(), e.Date.Format("2006-01-02"), e.Notes)
	}

	prompt := fmt.Sprintf(`You are a financial assistant helping a user understand their expenses.

Here is their expense data:
%s
User question: %s

Provide a helpful, concise answer based on the expense data. Include specific numbers and insights when relevant.`,
		records.String(), question)

	answer, err := q.provider.Complete(ctx, prompt, q.maxTokens)
	if err != nil {
		return "", fmt.Errorf("answer query: %w", err)
	}
	return answer, nil
}
