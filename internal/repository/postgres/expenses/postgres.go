package expenses

import (
	"context"

	expensesdomain "family-ledger-go/internal/domain/expenses"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, familyID string, filter expensesdomain.ListFilter) ([]expensesdomain.Expense, error) {
	query := r.db.WithContext(ctx).Model(&expensesdomain.Expense{}).Where("family_id = ?", familyID)
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MemberID != "" {
		query = query.Where("user_id = ?", filter.MemberID)
	}

	var items []expensesdomain.Expense
	if err := query.Order("date desc, created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *expensesdomain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *expensesdomain.Expense) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&expensesdomain.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]interface{}{
			"category": expense.Category,
			"amount":   expense.Amount,
			"note":     expense.Note,
			"date":     expense.Date,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, familyID, userID, expenseID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&expensesdomain.Expense{}, "id = ? AND family_id = ? AND user_id = ?", expenseID, familyID, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) MemberNames(ctx context.Context, familyID string) (map[string]expensesdomain.MemberName, error) {
	type row struct {
		UserID      string  `gorm:"column:user_id"`
		DisplayName string  `gorm:"column:display_name"`
		ProfileName *string `gorm:"column:name"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("family_members.user_id, family_members.display_name, user_profiles.name").
		Joins("left join user_profiles on user_profiles.user_id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	names := make(map[string]expensesdomain.MemberName, len(rows))
	for _, item := range rows {
		names[item.UserID] = expensesdomain.MemberName{
			DisplayName: item.DisplayName,
			ProfileName: item.ProfileName,
		}
	}
	return names, nil
}
