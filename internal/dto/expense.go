package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date parses the expense date from JSON as either date-only ("2006-01-02")
// or RFC3339. Date-only is stored as start of that day in UTC. Absent or
// empty means "not supplied" and the service fills in the current time.
type Date struct{ t *time.Time }

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d Date) Ptr() *time.Time { return d.t }

type AddExpenseRequest struct {
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
	Title    string   `json:"title"`
	Date     Date     `json:"date"` // optional: "2024-01-01" or RFC3339
}

type ExpenseResponse struct {
	ID       int64     `json:"id"`
	OwnerID  int64     `json:"ownerId"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
}

type AddExpenseResponse struct {
	Message string          `json:"message"`
	Expense ExpenseResponse `json:"expense"`
}

// DayTotal is one point of the calendar time series.
type DayTotal struct {
	Day   string  `json:"day"` // "2006-01-02"
	Total float64 `json:"total"`
}

type SummaryResponse struct {
	Series             []DayTotal         `json:"series"`
	DailyAvg           float64            `json:"dailyAvg"`
	MonthlyAvg         float64            `json:"monthlyAvg"`
	TopCategoryBySpend string             `json:"topCategoryBySpend"`
	TopCategoryByCount string             `json:"topCategoryByCount"`
	CategoryTotals     map[string]float64 `json:"categoryTotals"`
}
