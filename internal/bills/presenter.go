// Package bills builds the view model for the expense list page.
package bills

import (
	"sort"

	"github.com/billedapp/billed/internal/bill"
	"github.com/billedapp/billed/internal/format"
)

// Row is one rendered expense line.
type Row struct {
	Type       string
	Name       string
	Date       string // formatted display date, also the sort key
	RawDate    string
	Amount     *int64
	Status     string // formatted display status
	FileURL    string // empty when no receipt was attached
	HasReceipt bool
}

// View is the terminal list view: either Rows or ErrorMessage is populated.
// An empty bill collection yields a structurally intact view with zero rows.
type View struct {
	Rows         []Row
	ErrorMessage string
}

// Present renders the records as rows sorted by the formatted display date
// in descending lexical order: a row sorts after another whenever its
// formatted date compares lexically smaller. The comparator works on the
// rendered text, not the underlying ISO date, so 2-digit years wrap across
// century boundaries; that display behavior is kept as-is.
//
// An unparsable date or unrecognized status fails the whole view rather
// than rendering an undefined label.
func Present(records []bill.Bill) (View, error) {
	rows := make([]Row, 0, len(records))
	for _, b := range records {
		date, err := format.Date(b.Date)
		if err != nil {
			return View{}, err
		}
		status, err := format.Status(b.Status)
		if err != nil {
			return View{}, err
		}

		row := Row{
			Type:    b.Type,
			Name:    b.Name,
			Date:    date,
			RawDate: b.Date,
			Amount:  b.Amount,
			Status:  status,
		}
		if b.FileURL != nil {
			row.FileURL = *b.FileURL
			row.HasReceipt = true
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})

	return View{Rows: rows}, nil
}

// PresentError renders the failure view carrying the literal error message.
func PresentError(message string) View {
	return View{ErrorMessage: message}
}
