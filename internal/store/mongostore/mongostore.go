// Package mongostore is the document backend: every port method is one
// single-record operation against MongoDB. Concurrency control between
// find and save is delegated to the service layer's per-product locks.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webstore/shopstock/internal/shop"
)

const (
	productsCollection = "products"
	ordersCollection   = "order"
)

type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	orders   *mongo.Collection
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	return &Store{
		client:   client,
		products: db.Collection(productsCollection),
		orders:   db.Collection(ordersCollection),
	}, nil
}

func (s *Store) FindProduct(ctx context.Context, id int) (*shop.Product, error) {
	var p shop.Product
	err := s.products.FindOne(ctx, bson.M{"productId": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shop.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindProductByName(ctx context.Context, term string) (*shop.Product, error) {
	filter := bson.M{"productName": primitive.Regex{Pattern: term, Options: "i"}}
	var p shop.Product
	err := s.products.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shop.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) InsertProduct(ctx context.Context, p *shop.Product) error {
	n, err := s.products.CountDocuments(ctx, bson.M{"productId": p.ID})
	if err != nil {
		return err
	}
	if n > 0 {
		return shop.ErrDuplicateProduct
	}
	_, err = s.products.InsertOne(ctx, p)
	return err
}

func (s *Store) UpdateProduct(ctx context.Context, p *shop.Product) error {
	res, err := s.products.ReplaceOne(ctx, bson.M{"productId": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shop.ErrProductNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"productId": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return shop.ErrProductNotFound
	}
	return nil
}

func (s *Store) FindOrderByProductID(ctx context.Context, productID int) (*shop.Order, error) {
	var o shop.Order
	err := s.orders.FindOne(ctx, bson.M{"productId": productID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shop.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*shop.Order, error) {
	var o shop.Order
	err := s.orders.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shop.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) InsertOrder(ctx context.Context, o *shop.Order) error {
	_, err := s.orders.InsertOne(ctx, o)
	return err
}

func (s *Store) UpdateOrder(ctx context.Context, o *shop.Order) error {
	res, err := s.orders.ReplaceOne(ctx, bson.M{"orderId": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shop.ErrOrderNotFound
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := s.orders.DeleteOne(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return shop.ErrOrderNotFound
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
