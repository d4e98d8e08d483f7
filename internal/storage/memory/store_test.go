package memory

import (
	"context"
	"testing"

	interfaces "github.com/sheikh-saqib/payment-engine/internal/interfaces"
	"github.com/sheikh-saqib/payment-engine/internal/models"
	"github.com/sheikh-saqib/payment-engine/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecordStore_Contract(t *testing.T) {
	storagetest.RunContract(t, func(t *testing.T) interfaces.RecordStore {
		return NewMemoryRecordStore()
	})
}

func TestMemoryRecordStore_WriteRecordsOrderedByClient(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	for _, c := range []uint16{30, 2, 11} {
		require.NoError(t, store.UpdateRecord(ctx, models.NewRecord(c)))
	}

	sink := &storagetest.SliceSink{}
	require.NoError(t, store.WriteRecords(ctx, sink))

	require.Len(t, sink.Records, 3)
	assert.Equal(t, uint16(2), sink.Records[0].Client)
	assert.Equal(t, uint16(11), sink.Records[1].Client)
	assert.Equal(t, uint16(30), sink.Records[2].Client)
}

func TestMemoryRecordStore_ReturnedTransactionIsACopy(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	require.NoError(t, store.StoreTransaction(ctx, storagetest.Deposit(1, 1, "1")))

	got, err := store.GetTransaction(ctx, 1)
	require.NoError(t, err)
	got.DisputeStatus = models.StatusDisputed

	again, err := store.GetTransaction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, again.DisputeStatus)
}
