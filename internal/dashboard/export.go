package dashboard

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
)

// BuildXLSX renders the view's resampled table as a spreadsheet with the
// artifact column names as header.
func BuildXLSX(v View) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(v.Granularity)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, col := range artifact.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
	}
	for i, r := range v.Rows {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Region)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Date.Format(artifact.DateLayout))
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.AvgWaveHeight)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildSummaryPDF renders the monthly highest/lowest summary of v.
func BuildSummaryPDF(v View) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Monthly Summary - Highest and Lowest by Region")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Region", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Highest (m)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Lowest (m)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, e := range v.Extrema {
		pdf.CellFormat(45, 6, e.Region, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", e.MaxValue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, e.MaxDate.Format(MonthLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", e.MinValue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, e.MinDate.Format(MonthLayout), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	if len(v.Extrema) == 0 {
		pdf.Cell(0, 6, "No data.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
