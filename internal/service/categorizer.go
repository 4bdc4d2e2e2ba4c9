package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spendwise/spendwise/internal/infrastructure/llm"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// Suggestion is the categorization advisor's verdict for one expense.
//
// Confidence is a fixed two-level heuristic, not a calibrated probability:
// 0.85 when the model answered with an exactly-known category name, 0.5
// otherwise, 0.0 when the call failed. Downstream auto-assignment compares
// it against a threshold, so these exact values are load-bearing.
type Suggestion struct {
	Name       string
	Confidence float64
}

const (
	confidenceExactMatch = 0.85
	confidenceUnknown    = 0.5
)

// Categorizer asks the completion service to pick one category name for an
// expense, given the live category list. It reads storage but never writes;
// the expense-creation path decides what to persist.
type Categorizer struct {
	provider   llm.Provider
	categories repository.CategoryRepo
	maxTokens  int
}

func NewCategorizer(provider llm.Provider, categories repository.CategoryRepo, maxTokens int) *Categorizer {
	return &Categorizer{
		provider:   provider,
		categories: categories,
		maxTokens:  maxTokens,
	}
}

// Suggest returns the advisor's pick and its confidence. On any transport
// failure the zero Suggestion (confidence 0.0) comes back along with the
// error; callers are expected to absorb it and continue without AI fields.
func (c *Categorizer) Suggest(ctx context.Context, description, notes string, amount float64) (Suggestion, error) {
	names, err := c.categories.ListNames(ctx)
	if err != nil {
		return Suggestion{}, fmt.Errorf("list category names: %w", err)
	}

	prompt := buildCategorizePrompt(names, description, notes, amount)

	answer, err := c.provider.Complete(ctx, prompt, c.maxTokens)
	if err != nil {
		return Suggestion{}, err
	}

	suggested := strings.TrimSpace(answer)
	confidence := confidenceUnknown
	for _, name := range names {
		if suggested == name {
			confidence = confidenceExactMatch
			break
		}
	}

	return Suggestion{Name: suggested, Confidence: confidence}, nil
}

func buildCategorizePrompt(names []string, description, notes string, amount float64) string {
	var b strings.Builder
	b.WriteString("You are an expense categorization assistant. Given an expense description, suggest the most appropriate category.\n\n")
	fmt.Fprintf(&b, "Available categories: %s\n\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Expense description: %s\n", description)
	if notes != "" {
		fmt.Fprintf(&b, "Additional notes: %s\n", notes)
	}
	if amount > 0 {
		fmt.Fprintf(&b, "Amount: $%.2f\n", amount)
	}
	fmt.Fprintf(&b, "\nRespond with ONLY the category name from the available categories list. If none fit well, respond with %q.", model.Uncategorized)
	return b.String()
}
