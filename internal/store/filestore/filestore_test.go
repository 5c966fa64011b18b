package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/webstore/shopstock/internal/shop"
	"github.com/webstore/shopstock/internal/store"
	"github.com/webstore/shopstock/internal/store/storetest"
)

func open(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "products.json"), filepath.Join(dir, "order.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return open(t) })
}

func TestReloadFromDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	products := filepath.Join(dir, "products.json")
	orders := filepath.Join(dir, "order.json")

	s, err := New(products, orders)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	p := &shop.Product{ID: 1, Name: "Widget", Price: 10, Stock: 5, ImageURL: "x"}
	if err := s.InsertProduct(ctx, p); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	o := &shop.Order{ID: "ord-1", Address: "Sample Address", ProductID: 1, Status: shop.StatusPending, TotalCost: 20, Quantity: 2}
	if err := s.InsertOrder(ctx, o); err != nil {
		t.Fatalf("insert order: %v", err)
	}

	// a fresh store over the same files sees everything
	s2, err := New(products, orders)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	gotP, err := s2.FindProduct(ctx, 1)
	if err != nil {
		t.Fatalf("find product after reload: %v", err)
	}
	if *gotP != *p {
		t.Fatalf("product changed across reload: got %+v, want %+v", gotP, p)
	}
	gotO, err := s2.FindOrderByID(ctx, "ord-1")
	if err != nil {
		t.Fatalf("find order after reload: %v", err)
	}
	if *gotO != *o {
		t.Fatalf("order changed across reload: got %+v, want %+v", gotO, o)
	}
}

func TestMissingFilesStartEmpty(t *testing.T) {
	s := open(t)
	if _, err := s.FindProduct(context.Background(), 1); err != shop.ErrProductNotFound {
		t.Fatalf("got %v, want ErrProductNotFound", err)
	}
}

func TestLegacyStringProductID(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	orders := filepath.Join(dir, "order.json")

	// legacy files store the order's product reference as a string
	legacy := `[
  {
    "orderId": "ord-legacy",
    "address": "Sample Address",
    "productId": "42",
    "status": "Pending",
    "totalCost": 30,
    "quantity": 3
  }
]`
	if err := os.WriteFile(orders, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	s, err := New(filepath.Join(dir, "products.json"), orders)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	o, err := s.FindOrderByProductID(ctx, 42)
	if err != nil {
		t.Fatalf("coerced lookup failed: %v", err)
	}
	if o.ID != "ord-legacy" || o.ProductID != 42 {
		t.Fatalf("unexpected order: %+v", o)
	}
}
