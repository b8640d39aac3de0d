// Package ocr defines the receipt text-extraction dependency. Actual OCR is
// out of scope; only the port and a no-op implementation exist.
package ocr

import "context"

// Fields are the values an extractor may pull out of a receipt image.
type Fields struct {
	Amount string
	Date   string
	Vendor string
}

// Extractor reads structured fields from a receipt image.
type Extractor interface {
	Extract(ctx context.Context, content []byte) (Fields, error)
}

// Noop is the stub extractor: it returns empty fields and never fails.
type Noop struct{}

func (Noop) Extract(ctx context.Context, content []byte) (Fields, error) {
	return Fields{}, nil
}
