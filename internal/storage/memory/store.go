package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	interfaces "github.com/sheikh-saqib/payment-engine/internal/interfaces"
	"github.com/sheikh-saqib/payment-engine/internal/models"
)

// MemoryRecordStore is an in-memory implementation of interfaces.RecordStore.
// Nothing is persisted beyond the lifetime of the process.
type MemoryRecordStore struct {
	mu           sync.Mutex                    // guards both maps
	transactions map[uint32]models.Transaction // deposits and withdrawals by tx id
	records      map[uint16]models.Record      // account records by client id
}

// NewMemoryRecordStore creates an empty MemoryRecordStore.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		transactions: make(map[uint32]models.Transaction),
		records:      make(map[uint16]models.Record),
	}
}

// GetClientRecord returns the stored record or a zero one for an unknown client.
func (m *MemoryRecordStore) GetClientRecord(_ context.Context, client uint16) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.records[client]; ok {
		return rec, nil
	}
	return models.NewRecord(client), nil
}

func (m *MemoryRecordStore) GetTransaction(_ context.Context, id uint32) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

// StoreTransaction keeps deposits and withdrawals; corrections are dropped.
// The first transaction stored under an id wins.
func (m *MemoryRecordStore) StoreTransaction(_ context.Context, txn models.Transaction) error {
	if txn.IsCorrection() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.transactions[txn.ID]; exists {
		return nil
	}
	txn.DisputeStatus = txn.Status()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MemoryRecordStore) UpdateRecord(_ context.Context, rec models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.Client] = rec
	return nil
}

// UpdateRecordAndTxn writes the record and the stored transaction's status
// under one lock acquisition; no reader can observe one without the other.
func (m *MemoryRecordStore) UpdateRecordAndTxn(_ context.Context, rec models.Record, txn models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.transactions[txn.ID]
	if !ok {
		return fmt.Errorf("update status of %d: %w", txn.ID, interfaces.ErrTransactionNotFound)
	}
	stored.DisputeStatus = txn.Status()

	m.records[rec.Client] = rec
	m.transactions[txn.ID] = stored
	return nil
}

// WriteRecords emits every record in ascending client order.
func (m *MemoryRecordStore) WriteRecords(_ context.Context, sink interfaces.RecordSink) error {
	m.mu.Lock()
	clients := make([]uint16, 0, len(m.records))
	for client := range m.records {
		clients = append(clients, client)
	}
	slices.Sort(clients)
	snapshot := make([]models.Record, 0, len(clients))
	for _, client := range clients {
		snapshot = append(snapshot, m.records[client])
	}
	m.mu.Unlock()

	for _, rec := range snapshot {
		if err := sink.WriteRecord(rec); err != nil {
			return err
		}
	}
	return sink.Flush()
}

// Compile-time check: ensure MemoryRecordStore implements RecordStore interface
var _ interfaces.RecordStore = (*MemoryRecordStore)(nil)
