package store

import (
	"context"

	"github.com/webstore/shopstock/internal/shop"
)

// Store is the storage port shared by the document and file backends.
// Lookups return shop.ErrProductNotFound / shop.ErrOrderNotFound when the
// entity is absent; InsertProduct returns shop.ErrDuplicateProduct on an id
// collision. FindProductByName matches the product name case-insensitively
// as a substring in both backends.
type Store interface {
	FindProduct(ctx context.Context, id int) (*shop.Product, error)
	FindProductByName(ctx context.Context, term string) (*shop.Product, error)
	InsertProduct(ctx context.Context, p *shop.Product) error
	UpdateProduct(ctx context.Context, p *shop.Product) error
	DeleteProduct(ctx context.Context, id int) error

	FindOrderByProductID(ctx context.Context, productID int) (*shop.Order, error)
	FindOrderByID(ctx context.Context, orderID string) (*shop.Order, error)
	InsertOrder(ctx context.Context, o *shop.Order) error
	UpdateOrder(ctx context.Context, o *shop.Order) error
	DeleteOrder(ctx context.Context, orderID string) error

	Close(ctx context.Context) error
}
