// Package csvio reads transaction rows from CSV and writes account records back out.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/payment-engine/internal/models"
	"github.com/shopspring/decimal"
)

// ErrMalformedRow is wrapped by every row-level parse error.
var ErrMalformedRow = errors.New("malformed row")

// Reader parses rows of the form "type, client, tx, amount".
// The first row is a header and is skipped. The amount column may be empty
// or missing entirely; when present it may not carry more than AmountPlaces
// significant decimal places, so every balance renders exactly.
type Reader struct {
	csv        *csv.Reader
	headerSeen bool
}

// NewReader wraps r. Whitespace around fields is ignored.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next transaction or io.EOF when the input is exhausted.
func (r *Reader) Next() (models.Transaction, error) {
	if !r.headerSeen {
		r.headerSeen = true
		if _, err := r.csv.Read(); err != nil {
			return models.Transaction{}, err
		}
	}

	for {
		fields, err := r.csv.Read()
		if err != nil {
			return models.Transaction{}, err
		}
		if blank(fields) {
			continue
		}

		line, _ := r.csv.FieldPos(0)
		txn, err := parseRow(fields)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("line %d: %w: %v", line, ErrMalformedRow, err)
		}
		return txn, nil
	}
}

func parseRow(fields []string) (models.Transaction, error) {
	if len(fields) < 3 {
		return models.Transaction{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}

	txType, err := models.ParseTxType(fields[0])
	if err != nil {
		return models.Transaction{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("client %q: %w", fields[1], err)
	}

	id, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("tx %q: %w", fields[2], err)
	}

	txn := models.Transaction{
		Type:          txType,
		Client:        uint16(client),
		ID:            uint32(id),
		DisputeStatus: models.StatusNone,
	}

	if len(fields) > 3 {
		if raw := strings.TrimSpace(fields[3]); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return models.Transaction{}, fmt.Errorf("amount %q: %w", raw, err)
			}
			if !amount.Equal(amount.Truncate(AmountPlaces)) {
				return models.Transaction{}, fmt.Errorf("amount %q: more than %d decimal places", raw, AmountPlaces)
			}
			txn.Amount = decimal.NewNullDecimal(amount)
		}
	}
	return txn, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
