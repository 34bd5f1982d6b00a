package analytics

import (
	"sort"
	"time"

	"family-ledger-go/internal/domain/expenses"
)

// Pure aggregation over an already-loaded expense set. No I/O here:
// callers load the rows they care about (usually one calendar month)
// and derive the dashboard views in memory.

type CategoryTotal struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type DayTotal struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

type MemberTotal struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Amount      int64  `json:"amount"`
	Count       int    `json:"count"`
}

func Total(items []expenses.ExpenseWithName) int64 {
	var total int64
	for _, item := range items {
		total += item.Amount
	}
	return total
}

// ByCategory keeps the insertion order of each category's first
// occurrence; display layers re-sort by amount as needed.
func ByCategory(items []expenses.ExpenseWithName) []CategoryTotal {
	index := make(map[string]int, len(items))
	result := make([]CategoryTotal, 0)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			index[item.Category] = len(result)
			result = append(result, CategoryTotal{Category: item.Category})
			i = len(result) - 1
		}
		result[i].Amount += item.Amount
	}
	return result
}

// ByDay returns daily totals in ascending date order. ISO dates sort
// correctly as strings.
func ByDay(items []expenses.ExpenseWithName) []DayTotal {
	totals := make(map[string]int64, len(items))
	for _, item := range items {
		totals[item.Date.Format("2006-01-02")] += item.Amount
	}

	result := make([]DayTotal, 0, len(totals))
	for date, amount := range totals {
		result = append(result, DayTotal{Date: date, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

func ByMember(items []expenses.ExpenseWithName) []MemberTotal {
	index := make(map[string]int, len(items))
	result := make([]MemberTotal, 0)
	for _, item := range items {
		i, ok := index[item.UserID]
		if !ok {
			index[item.UserID] = len(result)
			result = append(result, MemberTotal{
				UserID:      item.UserID,
				DisplayName: item.DisplayName,
			})
			i = len(result) - 1
		}
		result[i].Amount += item.Amount
		result[i].Count++
	}
	return result
}

// MonthRange returns the first and last day of the calendar month
// containing ref, as date-only UTC values.
func MonthRange(ref time.Time) (time.Time, time.Time) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

func PreviousMonthRange(ref time.Time) (time.Time, time.Time) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthRange(first.AddDate(0, -1, 0))
}

// PercentChange is 0 when there is no prior baseline; callers that
// care about the distinction should check previous themselves.
func PercentChange(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
