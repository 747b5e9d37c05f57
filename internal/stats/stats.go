// Package stats computes aggregate statistics over a user's expenses.
// All functions are pure: they read a slice of expenses and never touch
// storage.
package stats

import (
	"sort"

	dom "github.com/akshay911-01/dbms-proj/internal/domain"
)

const dayLayout = "2006-01-02"

// DayTotal is the summed amount for one calendar day (UTC).
type DayTotal struct {
	Day   string
	Total float64
}

// Report is the aggregate view of a user's full expense set.
//
// DailyAvg divides by the number of distinct days with at least one expense.
// MonthlyAvg divides by a fixed 12-month window regardless of how many months
// are actually present; the asymmetry is deliberate and kept from the
// original product behavior.
type Report struct {
	Series             []DayTotal
	DailyAvg           float64
	MonthlyAvg         float64
	TopCategoryBySpend string
	TopCategoryByCount string
	CategoryTotals     map[string]float64
	CategoryCounts     map[string]int
}

// Summarize aggregates expenses into a Report. With no expenses both
// averages are 0 and the series is empty.
func Summarize(expenses []dom.Expense) Report {
	r := Report{
		CategoryTotals: make(map[string]float64),
		CategoryCounts: make(map[string]int),
	}

	dayTotals := make(map[string]float64)
	var total float64
	for _, e := range expenses {
		day := e.Date.UTC().Format(dayLayout)
		dayTotals[day] += e.Amount
		r.CategoryTotals[e.Category] += e.Amount
		r.CategoryCounts[e.Category]++
		total += e.Amount
	}

	r.Series = make([]DayTotal, 0, len(dayTotals))
	for day, t := range dayTotals {
		r.Series = append(r.Series, DayTotal{Day: day, Total: t})
	}
	sort.Slice(r.Series, func(i, j int) bool { return r.Series[i].Day < r.Series[j].Day })

	if len(dayTotals) > 0 {
		r.DailyAvg = total / float64(len(dayTotals))
	}
	if len(expenses) > 0 {
		r.MonthlyAvg = total / 12
	}

	counts := make(map[string]float64, len(r.CategoryCounts))
	for c, n := range r.CategoryCounts {
		counts[c] = float64(n)
	}
	r.TopCategoryBySpend = topCategory(r.CategoryTotals)
	r.TopCategoryByCount = topCategory(counts)
	return r
}

// topCategory picks the category with the greatest value; ties break
// lexicographically so the result is deterministic.
func topCategory(values map[string]float64) string {
	best := ""
	for c, v := range values {
		if best == "" || v > values[best] || (v == values[best] && c < best) {
			best = c
		}
	}
	return best
}
