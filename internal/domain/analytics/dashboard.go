package analytics

import (
	"sort"
	"time"

	"family-ledger-go/internal/domain/expenses"
	"family-ledger-go/pkg/format"
)

type Summary struct {
	Month          string  `json:"month"`
	Total          int64   `json:"total"`
	TotalFormatted string  `json:"total_formatted"`
	PreviousTotal  int64   `json:"previous_total"`
	PercentChange  float64 `json:"percent_change"`
	Count          int     `json:"count"`
}

type Dashboard struct {
	Summary    Summary         `json:"summary"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByDay      []DayTotal      `json:"by_day"`
	ByMember   []MemberTotal   `json:"by_member"`
}

// BuildDashboard derives the month view from the current and previous
// month's expense sets. Category and member breakdowns are sorted by
// amount descending for display.
func BuildDashboard(month time.Time, current, previous []expenses.ExpenseWithName) Dashboard {
	total := Total(current)

	byCategory := ByCategory(current)
	sort.SliceStable(byCategory, func(i, j int) bool {
		return byCategory[i].Amount > byCategory[j].Amount
	})

	byMember := ByMember(current)
	sort.SliceStable(byMember, func(i, j int) bool {
		return byMember[i].Amount > byMember[j].Amount
	})

	previousTotal := Total(previous)

	return Dashboard{
		Summary: Summary{
			Month:          month.Format("2006-01"),
			Total:          total,
			TotalFormatted: format.Currency(total),
			PreviousTotal:  previousTotal,
			PercentChange:  PercentChange(total, previousTotal),
			Count:          len(current),
		},
		ByCategory: byCategory,
		ByDay:      ByDay(current),
		ByMember:   byMember,
	}
}
