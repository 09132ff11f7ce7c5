package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"gate-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a register snapshot into a downloadable format.
type ExportService struct {
	clock timeutil.Clock
}

func NewExportService(clock timeutil.Clock) *ExportService {
	return &ExportService{clock: clock}
}

// Format metadata for the HTTP layer.
type ExportFile struct {
	Content     []byte
	ContentType string
	Extension   string
}

// Render produces the register in the requested format. Supported formats
// are csv, xlsx, pdf and json; anything else is an error.
func (s *ExportService) Render(data *ExportData, format string) (*ExportFile, error) {
	switch format {
	case "csv", "":
		return s.renderCSV(data)
	case "xlsx":
		return s.renderXLSX(data)
	case "pdf":
		return s.renderPDF(data)
	case "json":
		return s.renderJSON(data)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func (s *ExportService) renderCSV(data *ExportData) (*ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(data.Headers); err != nil {
		return nil, err
	}
	for _, row := range data.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ExportFile{
		Content:     buf.Bytes(),
		ContentType: "text/csv",
		Extension:   "csv",
	}, nil
}

func (s *ExportService) renderXLSX(data *ExportData) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, header := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	for i, row := range data.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &ExportFile{
		Content:     buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension:   "xlsx",
	}, nil
}

func (s *ExportService) renderPDF(data *ExportData) (*ExportFile, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, data.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.FormatIST(s.clock.Now(), timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	colWidth := 277.0 / float64(len(data.Headers))

	// Table header
	pdf.SetFont("Arial", "B", 7)
	pdf.SetFillColor(200, 200, 200)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Table rows
	pdf.SetFont("Arial", "", 7)
	for i, row := range data.Rows {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, pdfCell(value), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &ExportFile{
		Content:     buf.Bytes(),
		ContentType: "application/pdf",
		Extension:   "pdf",
	}, nil
}

// pdfCell fits a value into the narrow grid: newline-joined materials
// collapse to one line, and long values truncate on rune boundaries so a
// multi-byte name is never split mid-sequence.
func pdfCell(value string) string {
	value = strings.ReplaceAll(value, "\n", "; ")
	if runes := []rune(value); len(runes) > 24 {
		value = string(runes[:21]) + "..."
	}
	return value
}

func (s *ExportService) renderJSON(data *ExportData) (*ExportFile, error) {
	records := make([]map[string]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		record := make(map[string]string, len(data.Headers))
		for i, header := range data.Headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}

	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Content:     content,
		ContentType: "application/json",
		Extension:   "json",
	}, nil
}
