package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"wagesheet/internal/domain/wages"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	FileNameXLSX    = wages.ExportBaseName + ".xlsx"
)

// WriteXLSX writes a workbook with a single "Wage Sheet" holding one row per record.
func WriteXLSX(w io.Writer, records []wages.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := wages.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(wages.Columns))
	for _, column := range wages.Columns {
		header = append(header, column)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := record.Display.Cells()
		row := make([]any, 0, len(cells))
		for _, value := range cells {
			row = append(row, value)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastColumn, err := excelize.ColumnNumberToName(len(wages.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastColumn+"1", style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastColumn, 16); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
