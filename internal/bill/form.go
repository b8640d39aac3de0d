package bill

import (
	"strconv"
	"strings"
)

// DefaultVATPct is used when the percent field is absent or not numeric.
const DefaultVATPct = 20

// FormSnapshot is a typed read of the new-bill form, taken once at submit
// time. All values are the raw strings the user entered.
type FormSnapshot struct {
	Type       string
	Name       string
	Amount     string
	Date       string
	Vat        string
	Pct        string
	Commentary string
}

// Build assembles a new pending Bill from the snapshot for the given
// submitter. fileURL and fileName are the cached upload result and may both
// be nil when the upload has not resolved yet.
func (f FormSnapshot) Build(email string, fileURL, fileName *string) Bill {
	return Bill{
		Email:      email,
		Type:       f.Type,
		Name:       f.Name,
		Amount:     parseAmount(f.Amount),
		Date:       f.Date,
		Vat:        f.Vat,
		Pct:        parsePct(f.Pct),
		Commentary: f.Commentary,
		FileURL:    fileURL,
		FileName:   fileName,
		Status:     StatusPending,
	}
}

// parseAmount returns nil when no integer leads the raw value. The nil
// propagates into the persisted record unchanged; no validation error is
// raised for a malformed amount.
func parseAmount(raw string) *int64 {
	n, ok := parseLeadingInt(raw)
	if !ok {
		return nil
	}
	return &n
}

// parsePct falls back to DefaultVATPct for absent, non-numeric or negative
// input so the constructed record always carries a non-negative percentage.
func parsePct(raw string) int {
	n, ok := parseLeadingInt(raw)
	if !ok || n < 0 {
		return DefaultVATPct
	}
	return int(n)
}

// parseLeadingInt reads an optional sign and the leading run of digits,
// ignoring whatever follows, so "12.50" parses as 12. ok is false only
// when no digits lead the trimmed value.
func parseLeadingInt(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
