package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/domain/inventory"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch(t *testing.T, productID uuid.UUID, label string, qty int64, expiry *time.Time) *inventory.StockBatch {
	t.Helper()
	b, err := inventory.NewStockBatch(productID, "Turmeric", label, "kg", decimal.NewFromInt(qty), decimal.NewFromInt(80), expiry)
	require.NoError(t, err)
	return b
}

func TestGormStockBatchRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockBatchRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	soon := time.Now().AddDate(0, 1, 0).UTC().Truncate(24 * time.Hour)
	later := time.Now().AddDate(0, 6, 0).UTC().Truncate(24 * time.Hour)

	b1 := newTestBatch(t, productID, "B-LATE", 10, &later)
	b2 := newTestBatch(t, productID, "B-SOON", 4, &soon)
	b3 := newTestBatch(t, productID, "B-SOON", 6, &soon)
	other := newTestBatch(t, uuid.New(), "B-SOON", 100, nil)
	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockBatch{b1, b2, b3, other}))

	t.Run("find by product orders by expiry", func(t *testing.T) {
		batches, err := repo.FindByProduct(ctx, productID)
		require.NoError(t, err)
		require.Len(t, batches, 3)
		assert.Equal(t, "B-SOON", batches[0].Batch)
		assert.Equal(t, "B-LATE", batches[2].Batch)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, b1.ID)
		require.NoError(t, err)
		assert.Equal(t, "B-LATE", found.Batch)
		assert.True(t, found.Quantity.Equal(decimal.NewFromInt(10)))

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("deductions inside a transaction persist", func(t *testing.T) {
		err := repo.WithTx(ctx, func(tx inventory.StockBatchRepository) error {
			avail, err := tx.FindAvailable(ctx, productID, "B-SOON")
			if err != nil {
				return err
			}
			require.Len(t, avail, 2)
			avail[0].Deduct(avail[0].Available())
			return tx.Save(ctx, &avail[0])
		})
		require.NoError(t, err)

		avail, err := repo.FindAvailable(ctx, productID, "B-SOON")
		require.NoError(t, err)
		assert.Len(t, avail, 1)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		err := repo.WithTx(ctx, func(tx inventory.StockBatchRepository) error {
			avail, err := tx.FindAvailable(ctx, productID, "B-LATE")
			if err != nil {
				return err
			}
			avail[0].Deduct(decimal.NewFromInt(10))
			if err := tx.Save(ctx, &avail[0]); err != nil {
				return err
			}
			return errors.New("abort")
		})
		require.Error(t, err)

		avail, err := repo.FindAvailable(ctx, productID, "B-LATE")
		require.NoError(t, err)
		require.Len(t, avail, 1)
		assert.True(t, avail[0].Available().Equal(decimal.NewFromInt(10)))
	})
}
