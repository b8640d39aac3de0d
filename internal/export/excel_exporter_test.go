package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/billedapp/billed/internal/bill"
)

func i64Ptr(v int64) *int64   { return &v }
func strPtr(s string) *string { return &s }

func TestExcelExporter_Write(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())

	records := []bill.Bill{
		{
			Type: "Transports", Name: "vol", Date: "2004-04-04",
			Amount: i64Ptr(348), Vat: "70", Pct: 20,
			Status:   bill.StatusPending,
			FileURL:  strPtr("/uploads/justificatifs/vol.png"),
			FileName: strPtr("vol.png"),
		},
		{
			Type: "Restaurants et bars", Name: "déjeuner", Date: "2023-06-10",
			Amount: nil, Vat: "", Pct: 10,
			Status: bill.StatusAccepted,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.Write(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Notes de frais", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Date", get("A1"))
	assert.Equal(t, "Statut", get("G1"))

	assert.Equal(t, "4 Avr. 04", get("A2"))
	assert.Equal(t, "Transports", get("B2"))
	assert.Equal(t, "vol", get("C2"))
	assert.Equal(t, "348", get("D2"))
	assert.Equal(t, "En attente", get("G2"))
	assert.Equal(t, "vol.png", get("H2"))

	assert.Equal(t, "10 Jui. 23", get("A3"))
	assert.Equal(t, "", get("D3"), "unset amount exports as empty cell")
	assert.Equal(t, "Accepté", get("G3"))

	rows, err := f.GetRows("Notes de frais")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus one row per bill")
}

func TestExcelExporter_EmptyList(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, exporter.Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Notes de frais")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestExcelExporter_UnrecognizedStatusFails(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())

	var buf bytes.Buffer
	err := exporter.Write(&buf, []bill.Bill{
		{Type: "Transports", Name: "x", Date: "2023-01-01", Status: bill.Status("draft")},
	})
	assert.Error(t, err)
}
