// Package storetest holds the conformance suite both storage backends must
// pass, so behavioral drift between them (search semantics, id stability)
// shows up as a test failure rather than in production.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/webstore/shopstock/internal/shop"
	"github.com/webstore/shopstock/internal/store"
)

// Run exercises the storage port contract against a fresh store produced by
// open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("ProductCRUD", func(t *testing.T) { testProductCRUD(t, open(t)) })
	t.Run("ProductSearch", func(t *testing.T) { testProductSearch(t, open(t)) })
	t.Run("Orders", func(t *testing.T) { testOrders(t, open(t)) })
}

func testProductCRUD(t *testing.T, st store.Store) {
	ctx := context.Background()

	p := &shop.Product{ID: 1, Name: "Widget", Description: "a widget", Price: 10, Stock: 5, ImageURL: "x"}
	if err := st.InsertProduct(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertProduct(ctx, p); !errors.Is(err, shop.ErrDuplicateProduct) {
		t.Fatalf("duplicate insert: got %v, want ErrDuplicateProduct", err)
	}

	got, err := st.FindProduct(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if *got != *p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}

	if _, err := st.FindProduct(ctx, 99); !errors.Is(err, shop.ErrProductNotFound) {
		t.Fatalf("find missing: got %v, want ErrProductNotFound", err)
	}

	got.Stock = 3
	got.Price = 12.5
	if err := st.UpdateProduct(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := st.FindProduct(ctx, 1)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if again.Stock != 3 || again.Price != 12.5 {
		t.Fatalf("update not persisted: %+v", again)
	}

	if err := st.DeleteProduct(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteProduct(ctx, 1); !errors.Is(err, shop.ErrProductNotFound) {
		t.Fatalf("second delete: got %v, want ErrProductNotFound", err)
	}
}

func testProductSearch(t *testing.T, st store.Store) {
	ctx := context.Background()

	if err := st.InsertProduct(ctx, &shop.Product{ID: 1, Name: "Super Widget", Price: 10, Stock: 5, ImageURL: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// case-insensitive substring match in every backend
	for _, term := range []string{"Super Widget", "widget", "WIDG", "per wi"} {
		got, err := st.FindProductByName(ctx, term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if got.ID != 1 {
			t.Fatalf("search %q: got product %d", term, got.ID)
		}
	}

	if _, err := st.FindProductByName(ctx, "gizmo"); !errors.Is(err, shop.ErrProductNotFound) {
		t.Fatalf("search miss: got %v, want ErrProductNotFound", err)
	}
}

func testOrders(t *testing.T, st store.Store) {
	ctx := context.Background()

	o := &shop.Order{
		ID:        "ord-1",
		Address:   "Sample Address",
		ProductID: 7,
		Status:    shop.StatusPending,
		TotalCost: 20,
		Quantity:  2,
	}
	if err := st.InsertOrder(ctx, o); err != nil {
		t.Fatalf("insert order: %v", err)
	}

	byID, err := st.FindOrderByID(ctx, "ord-1")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if *byID != *o {
		t.Fatalf("order round trip mismatch: got %+v, want %+v", byID, o)
	}

	byProduct, err := st.FindOrderByProductID(ctx, 7)
	if err != nil {
		t.Fatalf("find by product id: %v", err)
	}
	if byProduct.ID != "ord-1" {
		t.Fatalf("find by product id: got order %q", byProduct.ID)
	}

	// updating must never reassign the order id
	byID.Address = "221B Baker Street"
	if err := st.UpdateOrder(ctx, byID); err != nil {
		t.Fatalf("update order: %v", err)
	}
	updated, err := st.FindOrderByID(ctx, "ord-1")
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if updated.Address != "221B Baker Street" {
		t.Fatalf("address not persisted: %+v", updated)
	}

	if err := st.DeleteOrder(ctx, "ord-1"); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if _, err := st.FindOrderByID(ctx, "ord-1"); !errors.Is(err, shop.ErrOrderNotFound) {
		t.Fatalf("find deleted order: got %v, want ErrOrderNotFound", err)
	}
	if _, err := st.FindOrderByProductID(ctx, 7); !errors.Is(err, shop.ErrOrderNotFound) {
		t.Fatalf("find deleted order by product: got %v, want ErrOrderNotFound", err)
	}
}
