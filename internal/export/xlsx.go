// Package export renders payments as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the files written by PaymentsXLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"Description", "Date", "Value", "Status", "Payed", "Payment info"}

// Filename returns the attachment name for a period.
func Filename(year, month int) string {
	return fmt.Sprintf("payments_%04d-%02d.xlsx", year, month)
}

// SheetName returns the sheet holding the payments of a period.
func SheetName(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// PaymentsXLSX writes the payments of one period as a single-sheet workbook.
func PaymentsXLSX(w io.Writer, year, month int, payments []model.PaymentView) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(year, month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	for idx, p := range payments {
		row := idx + 2
		value := any(model.NotTracked)
		if p.Value.Valid {
			value = p.Value.Decimal.InexactFloat64()
		}
		payed := "no"
		if p.IsPayed {
			payed = "yes"
		}
		cells := []any{p.Debt.Description, p.Date, value, string(p.Status), payed, p.PaymentInfo}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("export: %w", err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "E", 12)
	_ = f.SetColWidth(sheet, "F", "F", 30)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
