package order

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding exported orders.
const SheetName = "Orders"

// WriteXLSX renders records as a single-sheet workbook with the log's header row.
func WriteXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("xlsx header style: %w", err)
	}

	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := make([]any, 0, len(Columns))
		for j, v := range rec.Row() {
			// user_id stays numeric so the sheet can sort and filter on it.
			if j == 3 {
				row = append(row, rec.UserID)
				continue
			}
			row = append(row, v)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "I", "I", 40); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
