package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Export"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an Excel exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Renderer.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the title row, a styled header row and the data rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, ErrNoHeaders
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if data.Title != "" {
		_ = f.SetCellValue(xlsxSheet, "A1", data.Title)
		last, _ := excelize.CoordinatesToCellName(len(data.Headers), 1)
		_ = f.MergeCell(xlsxSheet, "A1", last)
		row++
	}

	for i, h := range data.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(xlsxSheet, cell, h)
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(xlsxSheet, col, col, 20)
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(data.Headers), row)
	_ = f.SetCellStyle(xlsxSheet, first, last, headerStyle)

	for _, r := range data.Rows {
		row++
		for i, value := range data.Record(r) {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(xlsxSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
