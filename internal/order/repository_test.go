package order_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

func openStore(t *testing.T) (*order.BoltStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orders.db")
	s, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, path
}

func sampleOrder(id int64) order.Order {
	return order.Order{
		ID:             id,
		CustomerName:   "Ana",
		ContactPhone:   "09171234567",
		DeliveryMethod: order.DeliveryPickup,
		PaymentMethod:  order.PaymentCash,
		Items: []order.LineItem{
			{Product: "Rose", Quantity: 2, UnitPrice: 100},
			{Product: "Tulips", Quantity: 1, UnitPrice: 80},
		},
		TotalPrice: 280,
	}
}

func TestBoltStore_CreateAndList(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	first := sampleOrder(1)
	second := sampleOrder(2)
	second.CustomerName = "Ben"

	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	orders, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Ana", orders[0].CustomerName)
	assert.Equal(t, "Ben", orders[1].CustomerName)
}

func TestBoltStore_Create_DuplicateID(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleOrder(7)))
	err := s.Create(ctx, sampleOrder(7))
	assert.True(t, errors.Is(err, order.ErrDuplicateID))

	orders, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestBoltStore_Update(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleOrder(1)))
	require.NoError(t, s.Create(ctx, sampleOrder(2)))

	updated := sampleOrder(1)
	updated.Notes = "gift wrap please"
	require.NoError(t, s.Update(ctx, updated))

	orders, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Update keeps the original position.
	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, "gift wrap please", orders[0].Notes)
}

func TestBoltStore_Update_NotFoundLeavesStoreUnchanged(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleOrder(1)))
	before, err := s.List(ctx)
	require.NoError(t, err)

	err = s.Update(ctx, sampleOrder(999))
	assert.True(t, errors.Is(err, order.ErrNotFound))

	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
}

func TestBoltStore_Delete(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleOrder(1)))
	require.NoError(t, s.Delete(ctx, 1))

	orders, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// Deleting an absent id is a safe no-op.
	assert.NoError(t, s.Delete(ctx, 1))
}

func TestBoltStore_GetByID(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleOrder(5)))

	got, err := s.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(sampleOrder(5), got))

	_, err = s.GetByID(ctx, 6)
	assert.True(t, errors.Is(err, order.ErrNotFound))
}

func TestBoltStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	ctx := context.Background()

	s, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)

	first := sampleOrder(1)
	second := sampleOrder(2)
	second.CustomerName = "Ben"
	second.DeliveryMethod = order.DeliveryCourier
	second.Address = "123 Garden St"
	second.Notes = "leave at the gate"

	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	before, err := s.List(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)
	defer reopened.Close()

	after, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
}

// seedSlot writes a raw JSON payload into the store slot the way an older
// build of the app would have left it.
func seedSlot(t *testing.T, path string, payload string) {
	t.Helper()

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("orderdesk"))
		if err != nil {
			return err
		}
		return b.Put([]byte("orders"), []byte(payload))
	})
	require.NoError(t, err)
}

func TestBoltStore_Load_UpgradesLegacyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	seedSlot(t, path, `[
		{
			"id": 1700000000000,
			"customerName": "Ana",
			"contactInfo": "09171234567",
			"deliveryMethod": "Pickup",
			"address": "",
			"product": "Tulips",
			"quantity": 3
		}
	]`)

	s, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)
	defer s.Close()

	orders, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got := orders[0]
	require.Len(t, got.Items, 1)
	assert.Equal(t, order.LineItem{Product: "Tulips", Quantity: 3, UnitPrice: 80}, got.Items[0])
	// Missing totalPrice is recomputed from the upgraded items.
	assert.Equal(t, int64(240), got.TotalPrice)
	// Missing paymentMethod falls back to the default.
	assert.Equal(t, order.PaymentCash, got.PaymentMethod)
}

func TestBoltStore_Load_LegacyUnknownProductKeepsZeroPrice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	seedSlot(t, path, `[
		{
			"id": 2,
			"customerName": "Ben",
			"contactInfo": "09171234567",
			"deliveryMethod": "Pickup",
			"product": "Orchid",
			"quantity": 2
		}
	]`)

	s, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)
	defer s.Close()

	orders, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(0), orders[0].Items[0].UnitPrice)
	assert.Equal(t, int64(0), orders[0].TotalPrice)
}

func TestBoltStore_PersistWritesUpgradedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	seedSlot(t, path, `[
		{"id": 1, "customerName": "Ana", "contactInfo": "09171234567",
		 "deliveryMethod": "Pickup", "product": "Rose", "quantity": 1}
	]`)

	s, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)

	// Any mutation rewrites the slot in the current schema.
	require.NoError(t, s.Create(context.Background(), sampleOrder(2)))
	require.NoError(t, s.Close())

	reopened, err := order.OpenBolt(path, catalog.Default())
	require.NoError(t, err)
	defer reopened.Close()

	orders, err := reopened.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, []order.LineItem{{Product: "Rose", Quantity: 1, UnitPrice: 100}}, orders[0].Items)
}
