package expenses

import "context"

type Repository interface {
	ListExpenses(ctx context.Context, familyID string, filter ListFilter) ([]Expense, error)
	CreateExpense(ctx context.Context, expense *Expense) error
	// UpdateExpense and DeleteExpense scope their predicate to
	// (id, user_id) so a member can only touch their own rows; they
	// report whether any row was affected.
	UpdateExpense(ctx context.Context, expense *Expense) (bool, error)
	DeleteExpense(ctx context.Context, familyID, userID, expenseID string) (bool, error)
	MemberNames(ctx context.Context, familyID string) (map[string]MemberName, error)
}
