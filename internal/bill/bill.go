package bill

import (
	"context"
	"fmt"
	"time"
)

// Status is the lifecycle state of an expense note.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Valid reports whether s is one of the three known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// ExpenseTypes is the fixed set of expense categories offered by the form.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et électronique",
	"Fournitures de bureau",
}

// Bill is a persisted expense note.
//
// Amount is nil when the submitted value was not parsable as an integer;
// callers must guard before using it. FileURL and FileName are either both
// set or both nil, never one without the other.
type Bill struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Amount     *int64    `json:"amount"`
	Date       string    `json:"date"`
	Vat        string    `json:"vat"`
	Pct        int       `json:"pct"`
	Commentary string    `json:"commentary"`
	FileURL    *string   `json:"fileUrl"`
	FileName   *string   `json:"fileName"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the record invariants before it is handed to a repository.
func (b *Bill) Validate() error {
	if !b.Status.Valid() {
		return fmt.Errorf("unknown bill status %q", b.Status)
	}
	if b.Pct < 0 {
		return fmt.Errorf("negative vat percentage %d", b.Pct)
	}
	if (b.FileURL == nil) != (b.FileName == nil) {
		return fmt.Errorf("partial file reference: url and name must both be set or both be nil")
	}
	return nil
}

// Repository persists and lists expense notes.
type Repository interface {
	List(ctx context.Context) ([]Bill, error)
	Create(ctx context.Context, b *Bill) error
}

// ReceiptStorage stores uploaded receipt files and returns a public URL.
type ReceiptStorage interface {
	Upload(ctx context.Context, path string, content []byte) (url string, err error)
}
