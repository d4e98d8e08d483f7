package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	interfaces "github.com/sheikh-saqib/payment-engine/internal/interfaces"
	"github.com/sheikh-saqib/payment-engine/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{
		db: db,
	}
}

func (p *PostgresRecordStore) GetClientRecord(ctx context.Context, client uint16) (models.Record, error) {
	const query = `SELECT client, available, held, total, locked FROM records WHERE client = $1`

	var rec models.Record
	err := p.db.QueryRowContext(ctx, query, client).Scan(
		&rec.Client,
		&rec.Available,
		&rec.Held,
		&rec.Total,
		&rec.Locked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewRecord(client), nil
	}
	if err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

func (p *PostgresRecordStore) GetTransaction(ctx context.Context, id uint32) (*models.Transaction, error) {
	const query = `SELECT tx, client, tx_type, dispute_status, amount FROM transactions WHERE tx = $1`

	var (
		txn            models.Transaction
		txType, status string
	)
	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&txn.ID,
		&txn.Client,
		&txType,
		&status,
		&txn.Amount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if txn.Type, err = models.ParseTxType(txType); err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}
	if txn.DisputeStatus, err = models.ParseDisputeStatus(status); err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}
	return &txn, nil
}

// StoreTransaction inserts deposits and withdrawals into transactions and
// logs corrections into the corrections table. A repeated id keeps the first row.
func (p *PostgresRecordStore) StoreTransaction(ctx context.Context, txn models.Transaction) error {
	if txn.IsCorrection() {
		const query = `INSERT INTO corrections (tx, client, tx_type) VALUES ($1, $2, $3)`
		_, err := p.db.ExecContext(ctx, query, txn.ID, txn.Client, string(txn.Type))
		return err
	}

	const query = `INSERT INTO transactions (tx, client, tx_type, dispute_status, amount)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (tx) DO NOTHING`

	_, err := p.db.ExecContext(ctx, query, txn.ID, txn.Client, string(txn.Type), string(txn.Status()), txn.Amount)
	return err
}

func (p *PostgresRecordStore) UpdateRecord(ctx context.Context, rec models.Record) error {
	return upsertRecord(ctx, p.db, rec)
}

// UpdateRecordAndTxn upserts the record and updates the transaction status
// inside a single database transaction.
func (p *PostgresRecordStore) UpdateRecordAndTxn(ctx context.Context, rec models.Record, txn models.Transaction) error {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	err = upsertRecord(ctx, dbTx, rec)
	if err != nil {
		return err
	}

	err = updateDisputeStatus(ctx, dbTx, txn)
	if err != nil {
		return err
	}

	err = dbTx.Commit()
	return err
}

// WriteRecords streams every record, ordered by client, into sink.
func (p *PostgresRecordStore) WriteRecords(ctx context.Context, sink interfaces.RecordSink) error {
	const query = `SELECT client, available, held, total, locked FROM records ORDER BY client`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.Client, &rec.Available, &rec.Held, &rec.Total, &rec.Locked); err != nil {
			return err
		}
		if err := sink.WriteRecord(rec); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}
	return sink.Flush()
}

func upsertRecord(ctx context.Context, exec execer, rec models.Record) error {
	const query = `INSERT INTO records (client, available, held, total, locked)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (client) DO UPDATE SET
		available = EXCLUDED.available,
		held = EXCLUDED.held,
		total = EXCLUDED.total,
		locked = EXCLUDED.locked`

	_, err := exec.ExecContext(ctx, query, rec.Client, rec.Available, rec.Held, rec.Total, rec.Locked)
	return err
}

func updateDisputeStatus(ctx context.Context, exec execer, txn models.Transaction) error {
	const query = `UPDATE transactions SET dispute_status = $1 WHERE tx = $2`

	res, err := exec.ExecContext(ctx, query, string(txn.Status()), txn.ID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("update status of %d: %w", txn.ID, interfaces.ErrTransactionNotFound)
	}
	return nil
}

var _ interfaces.RecordStore = (*PostgresRecordStore)(nil)
