package bills

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billedapp/billed/internal/bill"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func fixtureBills() []bill.Bill {
	return []bill.Bill{
		{
			Type: "Hôtel et logement", Name: "encore", Date: "2004-04-04",
			Amount: i64Ptr(400), Status: bill.StatusPending,
			FileURL:  strPtr("/uploads/justificatifs/a.jpg"),
			FileName: strPtr("a.jpg"),
		},
		{
			Type: "Transports", Name: "test1", Date: "2001-01-01",
			Amount: i64Ptr(100), Status: bill.StatusRefused,
			FileURL:  strPtr("/uploads/justificatifs/b.jpg"),
			FileName: strPtr("b.jpg"),
		},
		{
			Type: "Services en ligne", Name: "test3", Date: "2003-03-03",
			Amount: i64Ptr(300), Status: bill.StatusAccepted,
			FileURL:  strPtr("/uploads/justificatifs/c.jpg"),
			FileName: strPtr("c.jpg"),
		},
		{
			Type: "Restaurants et bars", Name: "test2", Date: "2002-02-02",
			Amount: i64Ptr(200), Status: bill.StatusRefused,
			FileURL:  strPtr("/uploads/justificatifs/d.jpg"),
			FileName: strPtr("d.jpg"),
		},
	}
}

func TestPresent_RendersAllRecords(t *testing.T) {
	view, err := Present(fixtureBills())
	require.NoError(t, err)

	assert.Empty(t, view.ErrorMessage)
	require.Len(t, view.Rows, 4)
}

func TestPresent_RowsOrderedByFormattedDateDescending(t *testing.T) {
	view, err := Present(fixtureBills())
	require.NoError(t, err)

	dates := make([]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		dates = append(dates, row.Date)
	}

	// the comparator puts a after b whenever a < b lexically
	sorted := append([]string(nil), dates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	assert.Equal(t, sorted, dates)

	assert.Equal(t, []string{"4 Avr. 04", "3 Mar. 03", "2 Fév. 02", "1 Jan. 01"}, dates)
}

// The sort key is the rendered text, not the underlying date, so within a
// month "9 Jan. 24" sorts before "10 Jan. 24". Display behavior preserved
// as-is.
func TestPresent_SortIsLexicalNotChronological(t *testing.T) {
	view, err := Present([]bill.Bill{
		{Name: "ninth", Date: "2024-01-09", Status: bill.StatusPending},
		{Name: "tenth", Date: "2024-01-10", Status: bill.StatusPending},
	})
	require.NoError(t, err)

	require.Len(t, view.Rows, 2)
	assert.Equal(t, "9 Jan. 24", view.Rows[0].Date)
	assert.Equal(t, "10 Jan. 24", view.Rows[1].Date)
}

func TestPresent_FormatsStatusLabels(t *testing.T) {
	view, err := Present(fixtureBills())
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, row := range view.Rows {
		labels[row.Status] = true
	}
	assert.True(t, labels["En attente"])
	assert.True(t, labels["Accepté"])
	assert.True(t, labels["Refused"])
}

func TestPresent_ReceiptPreviewAffordance(t *testing.T) {
	view, err := Present([]bill.Bill{
		{
			Name: "with receipt", Date: "2023-05-01", Status: bill.StatusPending,
			FileURL:  strPtr("/uploads/justificatifs/r.png"),
			FileName: strPtr("r.png"),
		},
		{Name: "without receipt", Date: "2023-04-01", Status: bill.StatusPending},
	})
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)

	assert.True(t, view.Rows[0].HasReceipt)
	assert.Equal(t, "/uploads/justificatifs/r.png", view.Rows[0].FileURL)
	assert.False(t, view.Rows[1].HasReceipt)
	assert.Empty(t, view.Rows[1].FileURL)
}

func TestPresent_EmptyCollection(t *testing.T) {
	view, err := Present(nil)
	require.NoError(t, err)

	assert.Empty(t, view.Rows)
	assert.Empty(t, view.ErrorMessage)
}

func TestPresent_UnrecognizedStatusFails(t *testing.T) {
	_, err := Present([]bill.Bill{
		{Name: "bad", Date: "2023-05-01", Status: bill.Status("archived")},
	})
	assert.Error(t, err)
}

func TestPresentError_CarriesLiteralMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "not found", message: "Erreur 404"},
		{name: "server error", message: "Erreur 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := PresentError(tt.message)
			assert.Equal(t, tt.message, view.ErrorMessage)
			assert.Empty(t, view.Rows)
		})
	}
}
