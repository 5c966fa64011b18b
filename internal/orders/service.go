// Package orders holds the stateful core: checkout debits stock and creates
// a Pending order as one logical transaction, cancellation credits the
// order's stored quantity back and deletes the order.
package orders

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webstore/shopstock/internal/events"
	"github.com/webstore/shopstock/internal/shop"
	"github.com/webstore/shopstock/internal/store"
)

// PlaceholderAddress is set at checkout; the real address arrives later via
// SetAddress.
const PlaceholderAddress = "Sample Address"

type Service struct {
	store  store.Store
	events events.Emitter
	log    *zap.Logger

	// per-product mutexes: both checkout and cancel are read-modify-write
	// sequences on product stock and must not interleave for the same id.
	locks sync.Map // int -> *sync.Mutex
}

func New(st store.Store, em events.Emitter, log *zap.Logger) *Service {
	if em == nil {
		em = events.Nop{}
	}
	return &Service{store: st, events: em, log: log}
}

func (s *Service) lockProduct(id int) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Checkout debits quantity from the product's stock and creates a Pending
// order priced at the product's current price. Stock is never driven below
// zero: a request for more than is available fails with
// shop.ErrInsufficientStock and changes nothing.
func (s *Service) Checkout(ctx context.Context, productID, quantity int) (*shop.Product, *shop.Order, error) {
	if quantity <= 0 {
		return nil, nil, shop.ErrInvalidQuantity
	}

	unlock := s.lockProduct(productID)
	defer unlock()

	p, err := s.store.FindProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if p.Stock < quantity {
		return nil, nil, shop.ErrInsufficientStock
	}

	p.Stock -= quantity
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, nil, err
	}

	o := &shop.Order{
		ID:        uuid.NewString(),
		Address:   PlaceholderAddress,
		ProductID: productID,
		Status:    shop.StatusPending,
		TotalCost: float64(quantity) * p.Price,
		Quantity:  quantity,
	}
	if err := s.store.InsertOrder(ctx, o); err != nil {
		// Known crash-consistency gap: the stock debit is already
		// persisted and there is no rollback. Surfaced here so the
		// operator can reconcile manually.
		s.log.Error("order insert failed after stock debit",
			zap.Int("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return nil, nil, err
	}

	s.events.OrderCreated(o)
	s.log.Info("checkout",
		zap.Int("product_id", productID),
		zap.String("order_id", o.ID),
		zap.Int("quantity", quantity),
		zap.Int("stock_left", p.Stock))
	return p, o, nil
}

// SetAddress updates the address of the single order on file for the
// product and resets its status to Pending. The order keeps its id in both
// backends.
func (s *Service) SetAddress(ctx context.Context, productID int, address string) (*shop.Order, error) {
	o, err := s.store.FindOrderByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	o.Address = address
	o.Status = shop.StatusPending
	if err := s.store.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Status(ctx context.Context, orderID string) (shop.Status, error) {
	o, err := s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

// Cancel credits the order's stored quantity back to its product and
// deletes the order. When the product has been deleted in the meantime the
// call fails with shop.ErrProductNotFound rather than dropping the stock
// adjustment silently; the order is left in place.
func (s *Service) Cancel(ctx context.Context, orderID string) error {
	o, err := s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	unlock := s.lockProduct(o.ProductID)
	defer unlock()

	// Re-read under the lock: a concurrent cancel may have credited the
	// stock and deleted this order between the lookup above and here.
	o, err = s.store.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	p, err := s.store.FindProduct(ctx, o.ProductID)
	if err != nil {
		return err
	}

	p.Stock += o.Quantity
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		s.log.Error("order delete failed after stock credit",
			zap.String("order_id", orderID),
			zap.Int("product_id", o.ProductID),
			zap.Error(err))
		return err
	}

	s.events.OrderCancelled(o)
	s.log.Info("order cancelled",
		zap.String("order_id", orderID),
		zap.Int("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity))
	return nil
}
