package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"weld_quote/internal/domain/entities"
	"weld_quote/internal/usecase/interfaces"
)

const quotesSheet = "Заявки"

var quoteHeaders = []string{
	"ID", "Создана", "Статус", "Вид работ", "Материал", "Толщина", "Соединение",
	"Объем", "Мин, ₽", "Макс, ₽", "Метод", "Тариф", "Описание", "Предупреждения",
}

// QuoteXLSXExporter writes quotes as a single-sheet workbook for the operators.
type QuoteXLSXExporter struct{}

var _ interfaces.IQuoteExporter = (*QuoteXLSXExporter)(nil)

func NewQuoteXLSXExporter() *QuoteXLSXExporter {
	return &QuoteXLSXExporter{}
}

func (e *QuoteXLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *QuoteXLSXExporter) FileExtension() string {
	return "xlsx"
}

func (e *QuoteXLSXExporter) Export(w io.Writer, quotes []entities.Quote) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", quotesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range quoteHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(quotesSheet, cell, h); err != nil {
			return err
		}
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(quoteHeaders), 1)
		_ = f.SetCellStyle(quotesSheet, "A1", last, bold)
	}

	for r, q := range quotes {
		row := []any{
			q.ID,
			q.CreatedAt.Format("2006-01-02 15:04"),
			string(q.Status),
			string(q.Job.WorkType),
			string(q.Job.Material),
			string(q.Job.Thickness),
			string(q.Job.WeldType),
			q.Job.VolumeText,
			q.Estimate.Range.Min,
			q.Estimate.Range.Max,
			string(q.Estimate.Method),
			q.Estimate.TariffVersion,
			q.Job.FreeText,
			strings.Join(q.Estimate.Warnings, "; "),
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(quotesSheet, cell, v); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(quotesSheet, "A", "A", 38)
	_ = f.SetColWidth(quotesSheet, "B", "B", 17)
	_ = f.SetColWidth(quotesSheet, "C", "L", 13)
	_ = f.SetColWidth(quotesSheet, "M", "N", 48)

	_, err := f.WriteTo(w)
	return err
}
