package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSnapshot_Build(t *testing.T) {
	url := "/uploads/justificatifs/receipt.png"
	name := "receipt.png"

	snap := FormSnapshot{
		Type:       "Transports",
		Name:       "Vol Paris Londres",
		Amount:     "348",
		Date:       "2023-04-04",
		Vat:        "70",
		Pct:        "20",
		Commentary: "déplacement client",
	}

	b := snap.Build("employee@test.tld", &url, &name)

	assert.Equal(t, "employee@test.tld", b.Email)
	assert.Equal(t, "Transports", b.Type)
	assert.Equal(t, "Vol Paris Londres", b.Name)
	require.NotNil(t, b.Amount)
	assert.Equal(t, int64(348), *b.Amount)
	assert.Equal(t, "2023-04-04", b.Date)
	assert.Equal(t, "70", b.Vat)
	assert.Equal(t, 20, b.Pct)
	assert.Equal(t, "déplacement client", b.Commentary)
	assert.Equal(t, &url, b.FileURL)
	assert.Equal(t, &name, b.FileName)
	assert.Equal(t, StatusPending, b.Status)
	assert.NoError(t, b.Validate())
}

func TestFormSnapshot_Build_AmountParsing(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *int64
	}{
		{
			name:     "integer amount is parsed",
			raw:      "100",
			expected: int64Ptr(100),
		},
		{
			name:     "empty amount stays unset",
			raw:      "",
			expected: nil,
		},
		{
			name:     "non-numeric amount stays unset",
			raw:      "douze",
			expected: nil,
		},
		{
			name:     "decimal amount keeps the integer prefix",
			raw:      "12.50",
			expected: int64Ptr(12),
		},
		{
			name:     "trailing text after digits is ignored",
			raw:      "348abc",
			expected: int64Ptr(348),
		},
		{
			name:     "negative amount is parsed",
			raw:      "-30",
			expected: int64Ptr(-30),
		},
		{
			name:     "surrounding whitespace is ignored",
			raw:      "  42 ",
			expected: int64Ptr(42),
		},
		{
			name:     "bare sign stays unset",
			raw:      "-",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FormSnapshot{Amount: tt.raw}.Build("e@t.tld", nil, nil)
			assert.Equal(t, tt.expected, b.Amount)
		})
	}
}

func TestFormSnapshot_Build_PctParsing(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{
			name:     "numeric pct is parsed",
			raw:      "10",
			expected: 10,
		},
		{
			name:     "empty pct defaults to 20",
			raw:      "",
			expected: 20,
		},
		{
			name:     "non-numeric pct defaults to 20",
			raw:      "vingt",
			expected: 20,
		},
		{
			name:     "decimal pct keeps the integer prefix",
			raw:      "15.5",
			expected: 15,
		},
		{
			name:     "negative pct defaults to 20",
			raw:      "-5",
			expected: 20,
		},
		{
			name:     "zero pct is kept",
			raw:      "0",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FormSnapshot{Pct: tt.raw}.Build("e@t.tld", nil, nil)
			assert.Equal(t, tt.expected, b.Pct)
		})
	}
}

func TestBill_Validate(t *testing.T) {
	url := "/uploads/x.png"
	name := "x.png"

	tests := []struct {
		name    string
		bill    Bill
		wantErr bool
	}{
		{
			name: "pending bill with full file reference is valid",
			bill: Bill{Status: StatusPending, FileURL: &url, FileName: &name},
		},
		{
			name: "bill without file reference is valid",
			bill: Bill{Status: StatusAccepted},
		},
		{
			name:    "url without name is a partial file reference",
			bill:    Bill{Status: StatusPending, FileURL: &url},
			wantErr: true,
		},
		{
			name:    "name without url is a partial file reference",
			bill:    Bill{Status: StatusPending, FileName: &name},
			wantErr: true,
		},
		{
			name:    "unknown status is rejected",
			bill:    Bill{Status: Status("draft")},
			wantErr: true,
		},
		{
			name:    "negative pct is rejected",
			bill:    Bill{Status: StatusRefused, Pct: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bill.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
