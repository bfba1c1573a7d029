package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"motoparts-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRenderRules(t *testing.T) {
	t.Parallel()

	updated := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	data, err := RenderRules([]domain.ShippingRule{
		{
			ID: "r-1", Name: "Southeast Economy", States: []string{"SP", "RJ"},
			MinWeight: 0, MaxWeight: 5, Price: decimal.RequireFromString("15.00"),
			DeliveryDays: 7, UpdatedAt: updated,
		},
		{
			ID: "r-2", Name: "North", States: []string{"AM"},
			MinWeight: 0.5, MaxWeight: 30, Price: decimal.RequireFromString("42.5"),
			DeliveryDays: 12, UpdatedAt: updated,
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{rulesSheet}, f.GetSheetList())

	rows, err := f.GetRows(rulesSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"ID", "Name", "States", "Min Weight (kg)", "Max Weight (kg)", "Price", "Delivery Days", "Updated At"}, rows[0])
	require.Equal(t, []string{"r-1", "Southeast Economy", "SP,RJ", "0", "5", "15", "7", "2026-02-10T09:30:00Z"}, rows[1])
	require.Equal(t, "AM", rows[2][2])
	require.Equal(t, "42.5", rows[2][5])

	formatted, err := f.GetCellValue(rulesSheet, "F2")
	require.NoError(t, err)
	require.Equal(t, "15.00", formatted)
}

func TestRenderRules_EmptyTableHasHeaderOnly(t *testing.T) {
	t.Parallel()

	data, err := RenderRules(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rulesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
