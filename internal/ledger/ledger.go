package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/payment-engine/internal/interfaces"
	"github.com/sheikh-saqib/payment-engine/internal/models"
	"github.com/sheikh-saqib/payment-engine/internal/models/events"
	"go.uber.org/zap"
)

// Ledger replays a transaction stream against a RecordStore.
// It is not safe for concurrent use: transactions are applied strictly in order.
type Ledger struct {
	store     interfaces.RecordStore    // storage implementation, memory or postgres
	logger    *zap.Logger               // never nil, defaults to a no-op logger
	publisher interfaces.EventPublisher // optional audit stream of outcomes
	topic     string
	runID     string
	now       func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for per-transaction debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPublisher publishes one events.TransactionProcessed per transaction to topic.
func WithPublisher(p interfaces.EventPublisher, topic string) Option {
	return func(l *Ledger) {
		l.publisher = p
		l.topic = topic
	}
}

// WithClock sets the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger creates a Ledger on top of the given storage implementation.
func NewLedger(store interfaces.RecordStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: zap.NewNop(),
		runID:  uuid.New().String(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(zap.String("run_id", l.runID))
	return l
}

// RunID identifies this ledger's run in logs and published events.
func (l *Ledger) RunID() string {
	return l.runID
}

// Summary counts what happened during a Run.
type Summary struct {
	RunID      string
	Processed  int
	Applied    int
	Rejected   int
	Rejections map[Rejection]int
}

func (s *Summary) add(o Outcome) {
	s.Processed++
	if o.Applied() {
		s.Applied++
		return
	}
	s.Rejected++
	s.Rejections[o.Rejection]++
}

// Run applies every transaction from src in order and then exports all
// account records to sink. Rejected transactions are counted in the Summary
// but never returned as errors; source and storage failures abort the run.
func (l *Ledger) Run(ctx context.Context, src interfaces.TransactionSource, sink interfaces.RecordSink) (Summary, error) {
	summary := Summary{RunID: l.runID, Rejections: make(map[Rejection]int)}

	for {
		txn, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read transaction: %w", err)
		}

		outcome, err := l.Apply(ctx, txn)
		if err != nil {
			return summary, err
		}
		summary.add(outcome)
	}

	if err := l.store.WriteRecords(ctx, sink); err != nil {
		return summary, fmt.Errorf("write records: %w", err)
	}

	l.logger.Info("run complete",
		zap.Int("processed", summary.Processed),
		zap.Int("applied", summary.Applied),
		zap.Int("rejected", summary.Rejected),
	)
	return summary, nil
}

// Apply processes a single transaction: lookup, store, decide, persist.
func (l *Ledger) Apply(ctx context.Context, txn models.Transaction) (Outcome, error) {
	current, err := l.store.GetClientRecord(ctx, txn.Client)
	if err != nil {
		return Outcome{}, fmt.Errorf("get record for client %d: %w", txn.Client, err)
	}

	var ref *models.Transaction
	if id, ok := txn.ReferencedID(); ok {
		ref, err = l.store.GetTransaction(ctx, id)
		if err != nil {
			return Outcome{}, fmt.Errorf("get transaction %d: %w", id, err)
		}
	}

	// Deposits and withdrawals are stored before validation so that a later
	// dispute can find them regardless of this transaction's outcome.
	if err := l.store.StoreTransaction(ctx, txn); err != nil {
		return Outcome{}, fmt.Errorf("store transaction %d: %w", txn.ID, err)
	}

	outcome := Process(txn, current, ref)

	switch {
	case outcome.Record != nil && outcome.Referenced != nil:
		if err := l.store.UpdateRecordAndTxn(ctx, *outcome.Record, *outcome.Referenced); err != nil {
			return Outcome{}, fmt.Errorf("update client %d and transaction %d: %w", txn.Client, outcome.Referenced.ID, err)
		}
	case outcome.Record != nil:
		if err := l.store.UpdateRecord(ctx, *outcome.Record); err != nil {
			return Outcome{}, fmt.Errorf("update client %d: %w", txn.Client, err)
		}
	}

	l.observe(ctx, txn, outcome)
	return outcome, nil
}

func (l *Ledger) observe(ctx context.Context, txn models.Transaction, o Outcome) {
	if !o.Applied() && l.logger.Core().Enabled(zap.DebugLevel) {
		l.logger.Debug("transaction ignored",
			zap.String("type", string(txn.Type)),
			zap.Uint16("client", txn.Client),
			zap.Uint32("tx", txn.ID),
			zap.Stringer("reason", o.Rejection),
		)
	}

	if l.publisher == nil {
		return
	}

	event := events.TransactionProcessed{
		RunID:         l.runID,
		TransactionID: txn.ID,
		ClientID:      txn.Client,
		Type:          string(txn.Type),
		Applied:       o.Applied(),
		Reason:        o.Rejection.String(),
		OccurredAt:    l.now(),
	}
	if txn.Amount.Valid {
		amount := txn.Amount.Decimal
		event.Amount = &amount
	}

	key := fmt.Sprintf("%d", txn.Client)
	if err := l.publisher.Publish(ctx, l.topic, key, event); err != nil {
		l.logger.Warn("publish outcome failed", zap.Uint32("tx", txn.ID), zap.Error(err))
	}
}
