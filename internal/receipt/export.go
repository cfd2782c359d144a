package receipt

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetReceipts   = "Receipts"
	sheetTotals     = "Totals"
	sheetCategories = "Categories"
)

// ExportFilename returns the export filename for a given date.
func ExportFilename(date time.Time) string {
	return fmt.Sprintf("quickreceipt-export-%s.xlsx", date.Format("2006-01-02"))
}

// ExportXLSX renders the record sequence and its analytics rollup into a
// three-sheet XLSX workbook: one row per record, the windowed totals, and
// the per-category totals ranked by value. An empty sequence still produces
// a valid workbook with header rows only.
func ExportXLSX(records []*Receipt, summary Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// excelize starts with a default sheet; rename it to the first sheet
	if err := f.SetSheetName("Sheet1", sheetReceipts); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	for _, sheet := range []string{sheetTotals, sheetCategories} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	write := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	writeRow := func(sheet string, row int, values ...any) error {
		for i, v := range values {
			if err := write(sheet, i+1, row, v); err != nil {
				return err
			}
		}
		return nil
	}

	// Sheet 1: one row per record, in store order
	if err := writeRow(sheetReceipts, 1, "Date", "Merchant", "Category", "Amount"); err != nil {
		return nil, err
	}
	for i, r := range records {
		err := writeRow(sheetReceipts, i+2,
			r.Date,
			r.MerchantName,
			r.Category,
			float64(r.AmountCents)/100,
		)
		if err != nil {
			return nil, err
		}
	}

	// Sheet 2: windowed totals
	if err := writeRow(sheetTotals, 1, "Window", "Total"); err != nil {
		return nil, err
	}
	totals := []struct {
		label string
		cents int64
	}{
		{"Weekly", summary.WeeklyCents},
		{"Monthly", summary.MonthlyCents},
		{"Yearly", summary.YearlyCents},
	}
	for i, t := range totals {
		if err := writeRow(sheetTotals, i+2, t.label, float64(t.cents)/100); err != nil {
			return nil, err
		}
	}

	// Sheet 3: per-category totals, ranked by value descending
	if err := writeRow(sheetCategories, 1, "Category", "Total"); err != nil {
		return nil, err
	}
	for i, c := range RankedCategories(records, summary.CategoryTotals) {
		if err := writeRow(sheetCategories, i+2, c, float64(summary.CategoryTotals[c])/100); err != nil {
			return nil, err
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheetReceipts, "A", "A", 14) // date
	_ = f.SetColWidth(sheetReceipts, "B", "B", 28) // merchant
	_ = f.SetColWidth(sheetReceipts, "C", "C", 22) // category
	_ = f.SetColWidth(sheetReceipts, "D", "D", 14) // amount

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
