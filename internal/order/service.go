package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Service coordinates draft submission and store mutations.
type Service interface {
	Submit(ctx context.Context, d Draft, existingID int64) (Order, error)
	Orders(ctx context.Context) ([]Order, error)
	OrderByID(ctx context.Context, id int64) (Order, error)
	Delete(ctx context.Context, id int64) error
	DeleteDeferred(id int64) bool
}

type service struct {
	store       Store
	ids         IDSource
	deleteDelay time.Duration

	mu      sync.Mutex
	pending map[int64]*time.Timer
}

// NewService wires a Service over the given store. deleteDelay is how long
// a user-visible delete is deferred before the store mutation runs.
func NewService(store Store, ids IDSource, deleteDelay time.Duration) Service {
	return &service{
		store:       store,
		ids:         ids,
		deleteDelay: deleteDelay,
		pending:     make(map[int64]*time.Timer),
	}
}

// Submit validates and finalizes a draft, then creates it (existingID
// zero) or replaces the stored order with that id. Nothing is persisted
// unless validation passes in full.
func (s *service) Submit(ctx context.Context, d Draft, existingID int64) (Order, error) {
	o, err := Finalize(d, existingID, s.ids)
	if err != nil {
		log.Warn().Err(err).Msg("service: draft rejected")
		return Order{}, err
	}

	if existingID == 0 {
		if err := s.store.Create(ctx, o); err != nil {
			log.Error().Err(err).Int64("order_id", o.ID).Msg("service: failed to create order")
			return Order{}, fmt.Errorf("service: failed to create order: %w", err)
		}
		log.Info().Int64("order_id", o.ID).Str("customer", o.CustomerName).Int64("total", o.TotalPrice).Msg("service: order created")
		return o, nil
	}

	if err := s.store.Update(ctx, o); err != nil {
		log.Error().Err(err).Int64("order_id", o.ID).Msg("service: failed to update order")
		return Order{}, fmt.Errorf("service: failed to update order: %w", err)
	}
	log.Info().Int64("order_id", o.ID).Str("customer", o.CustomerName).Int64("total", o.TotalPrice).Msg("service: order updated")
	return o, nil
}

func (s *service) Orders(ctx context.Context) ([]Order, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *service) OrderByID(ctx context.Context, id int64) (Order, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Order{}, fmt.Errorf("service: failed to get order %d: %w", id, err)
	}
	return o, nil
}

// Delete removes an order immediately, cancelling any pending deferred
// delete for the same id.
func (s *service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if timer, ok := s.pending[id]; ok {
		timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to delete order")
		return fmt.Errorf("service: failed to delete order: %w", err)
	}
	log.Info().Int64("order_id", id).Msg("service: order deleted")
	return nil
}

// DeleteDeferred schedules the store mutation a fixed delay after the
// user-visible action. Re-entrant deletes of an id already in its window
// are no-ops; the reported false lets callers skip re-animating.
func (s *service) DeleteDeferred(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; ok {
		return false
	}

	s.pending[id] = time.AfterFunc(s.deleteDelay, func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()

		if err := s.store.Delete(context.Background(), id); err != nil {
			log.Error().Err(err).Int64("order_id", id).Msg("service: deferred delete failed")
			return
		}
		log.Info().Int64("order_id", id).Dur("delay", s.deleteDelay).Msg("service: order deleted")
	})
	return true
}
