// Package format holds the pure display formatting shared by the bill list
// and the submission flow. The stored date stays ISO; only the rendered
// label is localized.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/billedapp/billed/internal/bill"
)

// frShortMonths are the French short month names as the display locale
// produces them. Labels are truncated to three letters after
// capitalization, so juin and juillet both render "Jui".
var frShortMonths = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// dateLayouts are the raw date shapes accepted, most common first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
}

// Date renders a raw stored date as "<day> <3-letter month>. <2-digit
// year>", e.g. "4 Avr. 04". An empty raw value yields an empty label and no
// error; callers must tolerate it. An unparsable non-empty value is an
// error.
func Date(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("unparsable date %q: %w", raw, err)
	}

	month := firstN(capitalize(frShortMonths[t.Month()-1]), 3)
	return fmt.Sprintf("%d %s. %02d", t.Day(), month, t.Year()%100), nil
}

// Status maps a lifecycle state to its display label. An unrecognized state
// is an error rather than a silent empty label.
func Status(s bill.Status) (string, error) {
	switch s {
	case bill.StatusPending:
		return "En attente", nil
	case bill.StatusAccepted:
		return "Accepté", nil
	case bill.StatusRefused:
		return "Refused", nil
	}
	return "", fmt.Errorf("unrecognized bill status %q", s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// firstN truncates by runes so accented month names keep whole letters.
func firstN(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
