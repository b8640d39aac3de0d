package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/billedapp/billed/internal/bill"
)

// BillRepository implements bill.Repository on SQLite.
type BillRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBillRepository creates a new bill repository.
func NewBillRepository(db *sql.DB, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new bill record and fills in its generated ID.
func (r *BillRepository) Create(ctx context.Context, b *bill.Bill) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("invalid bill: %w", err)
	}

	query := `
		INSERT INTO bills (
			email, type, name, amount, date, vat, pct,
			commentary, file_url, file_name, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		b.Email,
		b.Type,
		b.Name,
		nullInt64(b.Amount),
		b.Date,
		b.Vat,
		b.Pct,
		b.Commentary,
		nullString(b.FileURL),
		nullString(b.FileName),
		string(b.Status),
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.Error(err))
		return fmt.Errorf("failed to create bill: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	b.ID = id
	return nil
}

// List returns all bill records. Display ordering is the presenter's
// concern; rows come back in insertion order.
func (r *BillRepository) List(ctx context.Context) ([]bill.Bill, error) {
	query := `
		SELECT id, email, type, name, amount, date, vat, pct,
			commentary, file_url, file_name, status, created_at
		FROM bills
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var out []bill.Bill
	for rows.Next() {
		var (
			b        bill.Bill
			amount   sql.NullInt64
			fileURL  sql.NullString
			fileName sql.NullString
			status   string
		)
		if err := rows.Scan(
			&b.ID,
			&b.Email,
			&b.Type,
			&b.Name,
			&amount,
			&b.Date,
			&b.Vat,
			&b.Pct,
			&b.Commentary,
			&fileURL,
			&fileName,
			&status,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}

		if amount.Valid {
			b.Amount = &amount.Int64
		}
		if fileURL.Valid {
			b.FileURL = &fileURL.String
		}
		if fileName.Valid {
			b.FileName = &fileName.String
		}
		b.Status = bill.Status(status)

		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return out, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
