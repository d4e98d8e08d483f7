package storagetest

import (
	"io"
	"sort"

	"github.com/sheikh-saqib/payment-engine/internal/models"
	"github.com/shopspring/decimal"
)

// Deposit builds a deposit of amount for client under tx id.
func Deposit(client uint16, id uint32, amount string) models.Transaction {
	return amountTxn(models.Deposit, client, id, amount)
}

// Withdrawal builds a withdrawal of amount for client under tx id.
func Withdrawal(client uint16, id uint32, amount string) models.Transaction {
	return amountTxn(models.Withdrawal, client, id, amount)
}

// Correction builds a dispute, resolve or chargeback referencing id.
func Correction(t models.TxType, client uint16, id uint32) models.Transaction {
	return models.Transaction{Type: t, Client: client, ID: id}
}

func amountTxn(t models.TxType, client uint16, id uint32, amount string) models.Transaction {
	return models.Transaction{
		Type:   t,
		Client: client,
		ID:     id,
		Amount: decimal.NewNullDecimal(decimal.RequireFromString(amount)),
	}
}

// NewRecord builds a record from decimal strings.
func NewRecord(client uint16, available, held, total string, locked bool) models.Record {
	return models.Record{
		Client:    client,
		Available: decimal.RequireFromString(available),
		Held:      decimal.RequireFromString(held),
		Total:     decimal.RequireFromString(total),
		Locked:    locked,
	}
}

// SliceSink collects exported records in memory.
type SliceSink struct {
	Records []models.Record
	Flushed bool
}

func (s *SliceSink) WriteRecord(rec models.Record) error {
	s.Records = append(s.Records, rec)
	return nil
}

func (s *SliceSink) Flush() error {
	s.Flushed = true
	return nil
}

// Sorted returns the collected records ordered by client id.
func (s *SliceSink) Sorted() []models.Record {
	out := append([]models.Record(nil), s.Records...)
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// SliceSource replays a fixed list of transactions.
type SliceSource struct {
	Txns []models.Transaction
	pos  int
}

func (s *SliceSource) Next() (models.Transaction, error) {
	if s.pos >= len(s.Txns) {
		return models.Transaction{}, io.EOF
	}
	txn := s.Txns[s.pos]
	s.pos++
	return txn, nil
}
