package expenses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const fallbackDisplayName = "Unknown"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListExpenses returns the family's expenses under the filter, newest
// first (date desc, then created_at desc), each with the creator's
// resolved display name. Names come from one batched member lookup per
// call rather than one query per row; the output is the same.
func (s *Service) ListExpenses(ctx context.Context, familyID string, filter ListFilter) ([]ExpenseWithName, error) {
	items, err := s.repo.ListExpenses(ctx, familyID, filter)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return []ExpenseWithName{}, nil
	}

	names, err := s.repo.MemberNames(ctx, familyID)
	if err != nil {
		return nil, err
	}

	result := make([]ExpenseWithName, 0, len(items))
	for _, expense := range items {
		result = append(result, ExpenseWithName{
			Expense:     expense,
			DisplayName: resolveDisplayName(names, expense.UserID),
		})
	}

	return result, nil
}

func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*Expense, error) {
	if err := validateExpenseFields(input.Category, input.Amount, input.Date); err != nil {
		return nil, err
	}

	expense := Expense{
		ID:       uuid.NewString(),
		FamilyID: input.FamilyID,
		UserID:   input.UserID,
		Category: strings.TrimSpace(input.Category),
		Amount:   input.Amount,
		Note:     normalizeNote(input.Note),
		Date:     truncateToDate(input.Date),
	}

	if err := s.repo.CreateExpense(ctx, &expense); err != nil {
		return nil, err
	}

	return &expense, nil
}

func (s *Service) UpdateExpense(ctx context.Context, input UpdateExpenseInput) (*Expense, error) {
	if err := validateExpenseFields(input.Category, input.Amount, input.Date); err != nil {
		return nil, err
	}

	expense := Expense{
		ID:       input.ID,
		FamilyID: input.FamilyID,
		UserID:   input.UserID,
		Category: strings.TrimSpace(input.Category),
		Amount:   input.Amount,
		Note:     normalizeNote(input.Note),
		Date:     truncateToDate(input.Date),
	}

	updated, err := s.repo.UpdateExpense(ctx, &expense)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrExpenseNotFound
	}

	return &expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, familyID, userID, expenseID string) error {
	deleted, err := s.repo.DeleteExpense(ctx, familyID, userID, expenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	return nil
}

func validateExpenseFields(category string, amount int64, date time.Time) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is required")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func resolveDisplayName(names map[string]MemberName, userID string) string {
	name, ok := names[userID]
	if !ok {
		return fallbackDisplayName
	}
	if name.DisplayName != "" {
		return name.DisplayName
	}
	if name.ProfileName != nil && *name.ProfileName != "" {
		return *name.ProfileName
	}
	return fallbackDisplayName
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func truncateToDate(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
