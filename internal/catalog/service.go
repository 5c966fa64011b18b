// Package catalog implements product CRUD and search on top of the storage
// port. All field validation lives here, not in the HTTP layer.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/webstore/shopstock/internal/shop"
	"github.com/webstore/shopstock/internal/store"
)

type Service struct {
	store store.Store
	log   *zap.Logger
}

func New(st store.Store, log *zap.Logger) *Service {
	return &Service{store: st, log: log}
}

// ProductInput is the candidate shape for Add. Pointer fields distinguish
// absent from zero-valued so missing-field validation matches the API
// contract.
type ProductInput struct {
	ID          *int     `json:"productId"`
	Name        *string  `json:"productName"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	ImageURL    *string  `json:"imageUrl"`
}

func (s *Service) Search(ctx context.Context, term string) (*shop.Product, error) {
	if term == "" {
		return nil, shop.ErrEmptySearch
	}
	return s.store.FindProductByName(ctx, term)
}

func (s *Service) Details(ctx context.Context, id int) (*shop.Product, error) {
	return s.store.FindProduct(ctx, id)
}

func (s *Service) Add(ctx context.Context, in ProductInput) (*shop.Product, error) {
	if in.ID == nil || in.Name == nil || *in.Name == "" ||
		in.Price == nil || in.Stock == nil ||
		in.ImageURL == nil || *in.ImageURL == "" {
		return nil, shop.ErrInvalidProduct
	}
	if *in.Price < 0 || *in.Stock < 0 {
		return nil, shop.ErrInvalidProduct
	}
	p := &shop.Product{
		ID:       *in.ID,
		Name:     *in.Name,
		Price:    *in.Price,
		Stock:    *in.Stock,
		ImageURL: *in.ImageURL,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if err := s.store.InsertProduct(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product added", zap.Int("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateStockPrice sets whichever of stock and price is supplied. With
// neither supplied it fails instead of silently committing nothing.
func (s *Service) UpdateStockPrice(ctx context.Context, id int, stock *int, price *float64) (*shop.Product, error) {
	if stock == nil && price == nil {
		return nil, shop.ErrNothingToUpdate
	}
	p, err := s.store.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		p.Stock = *stock
	}
	if price != nil {
		p.Price = *price
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Int("product_id", id))
	return nil
}
