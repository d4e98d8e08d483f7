package interfaces

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/payment-engine/internal/models"
)

// ErrTransactionNotFound is returned by UpdateRecordAndTxn when the
// transaction to update was never stored.
var ErrTransactionNotFound = errors.New("transaction not found")

// RecordStore is the persistence contract the ledger runs against.
//
// Lookups of unknown clients or transactions are not errors: GetClientRecord
// returns a zero record and GetTransaction returns nil.
type RecordStore interface {
	GetClientRecord(ctx context.Context, client uint16) (models.Record, error)
	GetTransaction(ctx context.Context, id uint32) (*models.Transaction, error)
	StoreTransaction(ctx context.Context, txn models.Transaction) error
	UpdateRecord(ctx context.Context, rec models.Record) error
	// UpdateRecordAndTxn writes the record and the stored transaction's
	// dispute status atomically: either both are visible afterwards or neither
	// is. Only the status of txn is used; the stored row keeps its other fields.
	// An unknown txn.ID fails with ErrTransactionNotFound and writes nothing.
	UpdateRecordAndTxn(ctx context.Context, rec models.Record, txn models.Transaction) error
	WriteRecords(ctx context.Context, sink RecordSink) error
}

// RecordSink receives the final account records.
type RecordSink interface {
	WriteRecord(rec models.Record) error
	Flush() error
}

// TransactionSource yields parsed transactions in input order and returns
// io.EOF once exhausted.
type TransactionSource interface {
	Next() (models.Transaction, error)
}
