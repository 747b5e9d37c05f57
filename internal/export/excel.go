// Package export renders expenses into a downloadable spreadsheet.
// It is a boundary formatting concern: the service read path supplies the
// rows and this package only shapes them.
package export

import (
	"fmt"

	dom "github.com/akshay911-01/dbms-proj/internal/domain"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Expenses"

// BuildWorkbook renders the expenses into an xlsx workbook with columns
// Category, Amount, Description, Date (ISO calendar date).
func BuildWorkbook(expenses []dom.Expense) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 20}, {"B", 15}, {"C", 30}, {"D", 20},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheetName, w.col, w.col, w.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	header := []any{"Category", "Amount", "Description", "Date"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, e := range expenses {
		row := []any{e.Category, e.Amount, e.Title, e.Date.UTC().Format("2006-01-02")}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
