// Package filestore keeps the whole product and order collections in memory
// and rewrites a JSON document per collection on every mutation. A single
// mutex serializes all access: each write replaces the entire file, so
// finer-grained locking buys nothing here.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/webstore/shopstock/internal/shop"
)

type Store struct {
	mu           sync.Mutex
	productsPath string
	ordersPath   string
	products     []shop.Product
	orders       []orderRecord
}

// New loads both collections from disk. A missing file starts its
// collection empty; the file is created on the first mutation.
func New(productsPath, ordersPath string) (*Store, error) {
	s := &Store{productsPath: productsPath, ordersPath: ordersPath}
	if err := loadJSON(productsPath, &s.products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if err := loadJSON(ordersPath, &s.orders); err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return s, nil
}

func loadJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}

func (s *Store) FindProduct(ctx context.Context, id int) (*shop.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.productIndex(id); i >= 0 {
		p := s.products[i]
		return &p, nil
	}
	return nil, shop.ErrProductNotFound
}

func (s *Store) FindProductByName(ctx context.Context, term string) (*shop.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := strings.ToLower(term)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), t) {
			out := p
			return &out, nil
		}
	}
	return nil, shop.ErrProductNotFound
}

func (s *Store) InsertProduct(ctx context.Context, p *shop.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.productIndex(p.ID) >= 0 {
		return shop.ErrDuplicateProduct
	}
	s.products = append(s.products, *p)
	return s.persistProducts()
}

func (s *Store) UpdateProduct(ctx context.Context, p *shop.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(p.ID)
	if i < 0 {
		return shop.ErrProductNotFound
	}
	s.products[i] = *p
	return s.persistProducts()
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return shop.ErrProductNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return s.persistProducts()
}

func (s *Store) FindOrderByProductID(ctx context.Context, productID int) (*shop.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if int(o.ProductID) == productID {
			out := o.toOrder()
			return &out, nil
		}
	}
	return nil, shop.ErrOrderNotFound
}

func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*shop.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.orderIndex(orderID); i >= 0 {
		out := s.orders[i].toOrder()
		return &out, nil
	}
	return nil, shop.ErrOrderNotFound
}

func (s *Store) InsertOrder(ctx context.Context, o *shop.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, fromOrder(o))
	return s.persistOrders()
}

func (s *Store) UpdateOrder(ctx context.Context, o *shop.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(o.ID)
	if i < 0 {
		return shop.ErrOrderNotFound
	}
	s.orders[i] = fromOrder(o)
	return s.persistOrders()
}

func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(orderID)
	if i < 0 {
		return shop.ErrOrderNotFound
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	return s.persistOrders()
}

func (s *Store) Close(ctx context.Context) error { return nil }

// callers must hold s.mu
func (s *Store) productIndex(id int) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) orderIndex(orderID string) int {
	for i, o := range s.orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}

func (s *Store) persistProducts() error {
	return writeJSON(s.productsPath, s.products)
}

func (s *Store) persistOrders() error {
	return writeJSON(s.ordersPath, s.orders)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
