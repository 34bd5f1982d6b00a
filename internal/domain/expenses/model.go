package expenses

import "time"

// Expense amounts are whole rupiah (the smallest unit in use); there is
// no fractional component. Category is stored verbatim even when it no
// longer matches the compiled-in catalog.
type Expense struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;index;not null"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Category  string    `gorm:"not null"`
	Amount    int64     `gorm:"not null"`
	Note      *string   `gorm:"type:text"`
	Date      time.Time `gorm:"type:date;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ExpenseWithName is an expense row with the creator's resolved display
// name: the per-family membership name, falling back to the profile
// name, falling back to "Unknown".
type ExpenseWithName struct {
	Expense
	DisplayName string
}

// MemberName holds the two name sources for one family member.
type MemberName struct {
	DisplayName string
	ProfileName *string
}

// ListFilter predicates combine conjunctively; nil/empty fields impose
// no constraint.
type ListFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
	MemberID string
}

type CreateExpenseInput struct {
	FamilyID string
	UserID   string
	Category string
	Amount   int64
	Note     *string
	Date     time.Time
}

type UpdateExpenseInput struct {
	ID       string
	FamilyID string
	UserID   string
	Category string
	Amount   int64
	Note     *string
	Date     time.Time
}
