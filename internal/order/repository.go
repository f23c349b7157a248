package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrDuplicateID = errors.New("order id already exists")
)

// Store owns the order collection. Mutations are all-or-nothing: a failed
// persist leaves the in-memory collection as it was before the call.
type Store interface {
	Create(ctx context.Context, o Order) error
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Order, error)
	List(ctx context.Context) ([]Order, error)
}

const (
	ordersBucket = "orderdesk"

	// ordersKey is the single slot holding the JSON array of all orders.
	ordersKey = "orders"
)

// BoltStore keeps the collection in memory and mirrors every mutation to
// one slot in a bbolt bucket. The slot is read once at open time.
type BoltStore struct {
	db  *bolt.DB
	cat *catalog.Catalog

	mu     sync.RWMutex
	orders []Order
}

// OpenBolt opens (creating if needed) the database at path and loads the
// saved orders, upgrading any legacy records on the way in.
func OpenBolt(path string, cat *catalog.Catalog) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open store at %s: %w", path, err)
	}

	s := &BoltStore{db: db, cat: cat}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", path).Int("orders", len(s.orders)).Msg("repository: store opened")
	return s, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// record tolerates the older single-product schema: a top-level
// product/quantity pair instead of an items array.
type record struct {
	Order
	LegacyProduct  string `json:"product,omitempty"`
	LegacyQuantity int    `json:"quantity,omitempty"`
}

func (s *BoltStore) load() error {
	var raw []byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(ordersBucket))
		if err != nil {
			return err
		}
		if v := b.Get([]byte(ordersKey)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repository: failed to read orders slot: %w", err)
	}

	if raw == nil {
		s.orders = nil
		return nil
	}

	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("repository: failed to decode orders slot: %w", err)
	}

	orders := make([]Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, s.upgrade(rec))
	}
	s.orders = orders
	return nil
}

// upgrade converts a stored record to the current schema: legacy
// single-product records become a one-item cart with the price looked up
// from the catalog, and a missing total is recomputed from the items.
func (s *BoltStore) upgrade(rec record) Order {
	o := rec.Order
	if len(o.Items) == 0 && rec.LegacyProduct != "" {
		price, err := s.cat.PriceOf(rec.LegacyProduct)
		if err != nil {
			log.Warn().Int64("order_id", o.ID).Str("product", rec.LegacyProduct).
				Msg("repository: legacy record references unknown product, keeping zero price")
			price = 0
		}
		o.Items = []LineItem{{
			Product:   rec.LegacyProduct,
			Quantity:  rec.LegacyQuantity,
			UnitPrice: price,
		}}
	}
	if o.TotalPrice == 0 {
		o.TotalPrice = ComputeTotal(o.Items)
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentCash
	}
	return o
}

// persist writes the whole collection back to the slot. Callers hold the
// write lock.
func (s *BoltStore) persist() error {
	raw, err := json.Marshal(s.orders)
	if err != nil {
		return fmt.Errorf("repository: failed to encode orders: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ordersBucket)).Put([]byte(ordersKey), raw)
	})
	if err != nil {
		return fmt.Errorf("repository: failed to write orders slot: %w", err)
	}
	return nil
}

func (s *BoltStore) Create(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(o.ID) >= 0 {
		return fmt.Errorf("repository: create order %d: %w", o.ID, ErrDuplicateID)
	}

	s.orders = append(s.orders, o)
	if err := s.persist(); err != nil {
		s.orders = s.orders[:len(s.orders)-1]
		return err
	}
	return nil
}

// Update replaces the entry with a matching id, keeping its position.
func (s *BoltStore) Update(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(o.ID)
	if i < 0 {
		return fmt.Errorf("repository: update order %d: %w", o.ID, ErrNotFound)
	}

	previous := s.orders[i]
	s.orders[i] = o
	if err := s.persist(); err != nil {
		s.orders[i] = previous
		return err
	}
	return nil
}

// Delete removes the entry with a matching id. Deleting an absent id is a
// safe no-op.
func (s *BoltStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		log.Debug().Int64("order_id", id).Msg("repository: delete of absent order, nothing to do")
		return nil
	}

	previous := s.orders
	s.orders = append(append([]Order{}, s.orders[:i]...), s.orders[i+1:]...)
	if err := s.persist(); err != nil {
		s.orders = previous
		return err
	}
	return nil
}

func (s *BoltStore) GetByID(ctx context.Context, id int64) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Order{}, fmt.Errorf("repository: get order %d: %w", id, ErrNotFound)
	}
	return s.orders[i], nil
}

// List returns the orders in insertion order.
func (s *BoltStore) List(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *BoltStore) indexOf(id int64) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}
