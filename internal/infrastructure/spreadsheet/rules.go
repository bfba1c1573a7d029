package spreadsheet

import (
	"fmt"
	"strings"
	"time"

	"motoparts-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const rulesSheet = "Shipping Rules"

var ruleHeaders = []struct {
	title string
	width float64
}{
	{"ID", 38},
	{"Name", 30},
	{"States", 24},
	{"Min Weight (kg)", 16},
	{"Max Weight (kg)", 16},
	{"Price", 12},
	{"Delivery Days", 14},
	{"Updated At", 22},
}

// RenderRules writes the rule table as a single-sheet XLSX workbook.
func RenderRules(rules []domain.ShippingRule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rulesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("price style: %w", err)
	}

	for i, h := range ruleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(rulesSheet, cell, h.title); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(rulesSheet, col, col, h.width); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(ruleHeaders), 1)
	if err := f.SetCellStyle(rulesSheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rules {
		row := i + 2
		values := []any{
			r.ID,
			r.Name,
			strings.Join(r.States, ","),
			r.MinWeight,
			r.MaxWeight,
			r.Price.InexactFloat64(),
			r.DeliveryDays,
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(rulesSheet, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		priceCell, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.SetCellStyle(rulesSheet, priceCell, priceCell, priceStyle); err != nil {
			return nil, err
		}
	}

	if err := f.SetPanes(rulesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
