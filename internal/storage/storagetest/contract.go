// Package storagetest holds the behaviour every interfaces.RecordStore must
// share. Backends call RunContract from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"

	interfaces "github.com/sheikh-saqib/payment-engine/internal/interfaces"
	"github.com/sheikh-saqib/payment-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) interfaces.RecordStore

// RunContract runs the shared storage suite against stores built by newStore.
func RunContract(t *testing.T, newStore Factory) {
	t.Run("unknown client yields zero record", func(t *testing.T) {
		store := newStore(t)

		rec, err := store.GetClientRecord(context.Background(), 42)
		require.NoError(t, err)
		assert.True(t, models.NewRecord(42).Equal(rec))
	})

	t.Run("unknown transaction yields nil", func(t *testing.T) {
		store := newStore(t)

		txn, err := store.GetTransaction(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, txn)
	})

	t.Run("deposit is stored with status none", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.StoreTransaction(ctx, Deposit(1, 10, "2.5")))

		got, err := store.GetTransaction(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.Deposit, got.Type)
		assert.Equal(t, uint16(1), got.Client)
		assert.Equal(t, models.StatusNone, got.DisputeStatus)
		require.True(t, got.Amount.Valid)
		assert.True(t, decimal.RequireFromString("2.5").Equal(got.Amount.Decimal))
	})

	t.Run("transaction without amount is stored", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		txn := models.Transaction{Type: models.Withdrawal, Client: 3, ID: 11}
		require.NoError(t, store.StoreTransaction(ctx, txn))

		got, err := store.GetTransaction(ctx, 11)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.Amount.Valid)
	})

	t.Run("corrections are not stored as transactions", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.StoreTransaction(ctx, Correction(models.Dispute, 1, 99)))

		got, err := store.GetTransaction(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("first stored transaction wins", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.StoreTransaction(ctx, Deposit(1, 5, "1.0")))
		require.NoError(t, store.StoreTransaction(ctx, Deposit(2, 5, "9.0")))

		got, err := store.GetTransaction(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint16(1), got.Client)
	})

	t.Run("update record upserts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first := NewRecord(4, "1", "0", "1", false)
		require.NoError(t, store.UpdateRecord(ctx, first))
		second := NewRecord(4, "0.25", "0.75", "1", true)
		require.NoError(t, store.UpdateRecord(ctx, second))

		got, err := store.GetClientRecord(ctx, 4)
		require.NoError(t, err)
		assert.True(t, second.Equal(got), "got %+v", got)
	})

	t.Run("update record and transaction writes both", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		dep := Deposit(1, 1, "3.0")
		require.NoError(t, store.StoreTransaction(ctx, dep))

		rec := NewRecord(1, "0", "3.0", "3.0", false)
		require.NoError(t, store.UpdateRecordAndTxn(ctx, rec, dep.WithStatus(models.StatusDisputed)))

		gotRec, err := store.GetClientRecord(ctx, 1)
		require.NoError(t, err)
		assert.True(t, rec.Equal(gotRec))

		gotTxn, err := store.GetTransaction(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, gotTxn)
		assert.Equal(t, models.StatusDisputed, gotTxn.DisputeStatus)
	})

	t.Run("update record and transaction only changes status", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.StoreTransaction(ctx, Deposit(1, 5, "3.0")))

		rec := NewRecord(1, "0", "3.0", "3.0", false)
		require.NoError(t, store.UpdateRecordAndTxn(ctx, rec, Deposit(9, 5, "999").WithStatus(models.StatusDisputed)))

		got, err := store.GetTransaction(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StatusDisputed, got.DisputeStatus)
		assert.Equal(t, uint16(1), got.Client)
		require.True(t, got.Amount.Valid)
		assert.True(t, decimal.RequireFromString("3.0").Equal(got.Amount.Decimal))
	})

	t.Run("dual write to unknown transaction fails and leaves record unchanged", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		before := NewRecord(1, "5", "0", "5", false)
		require.NoError(t, store.UpdateRecord(ctx, before))

		missing := Deposit(1, 77, "5").WithStatus(models.StatusDisputed)
		err := store.UpdateRecordAndTxn(ctx, NewRecord(1, "0", "5", "5", false), missing)
		require.Error(t, err)
		assert.True(t, errors.Is(err, interfaces.ErrTransactionNotFound))

		got, err := store.GetClientRecord(ctx, 1)
		require.NoError(t, err)
		assert.True(t, before.Equal(got), "got %+v", got)

		txn, err := store.GetTransaction(ctx, 77)
		require.NoError(t, err)
		assert.Nil(t, txn)
	})

	t.Run("decimals round trip exactly", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		rec := NewRecord(9, "0.1", "0.2", "0.3", false)
		require.NoError(t, store.UpdateRecord(ctx, rec))

		got, err := store.GetClientRecord(ctx, 9)
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(got.Available.Add(got.Held)))
		assert.True(t, rec.Equal(got))
	})

	t.Run("write records exports every client once", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, c := range []uint16{3, 1, 2} {
			require.NoError(t, store.UpdateRecord(ctx, NewRecord(c, "1", "0", "1", false)))
		}

		sink := &SliceSink{}
		require.NoError(t, store.WriteRecords(ctx, sink))
		assert.True(t, sink.Flushed)

		clients := make([]uint16, 0, len(sink.Records))
		for _, r := range sink.Records {
			clients = append(clients, r.Client)
		}
		assert.ElementsMatch(t, []uint16{1, 2, 3}, clients)
	})
}
