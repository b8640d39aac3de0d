package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/billedapp/billed/internal/bill"
	"github.com/billedapp/billed/internal/format"
)

// sheetName is the single sheet the export writes to.
const sheetName = "Notes de frais"

var headerRow = []string{"Date", "Type", "Nom", "Montant", "TVA", "Pct", "Statut", "Justificatif"}

// ExcelExporter writes the bill list as an xlsx workbook.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Write renders one row per bill, formatted the same way the list view
// formats them, and streams the workbook to w.
func (e *ExcelExporter) Write(w io.Writer, records []bill.Bill) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, b := range records {
		date, err := format.Date(b.Date)
		if err != nil {
			return err
		}
		status, err := format.Status(b.Status)
		if err != nil {
			return err
		}

		var amount interface{}
		if b.Amount != nil {
			amount = *b.Amount
		}
		var fileName string
		if b.FileName != nil {
			fileName = *b.FileName
		}

		row := []interface{}{date, b.Type, b.Name, amount, b.Vat, b.Pct, status, fileName}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Exported bill list", zap.Int("rows", len(records)))
	return nil
}
