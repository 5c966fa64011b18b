package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/webstore/shopstock/internal/catalog"
	"github.com/webstore/shopstock/internal/orders"
	"github.com/webstore/shopstock/internal/shop"
	"github.com/webstore/shopstock/internal/store/filestore"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	st, err := filestore.New(filepath.Join(dir, "products.json"), filepath.Join(dir, "order.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	log := zap.NewNop()
	h := &Handler{
		Catalog: catalog.New(st, log),
		Orders:  orders.New(st, nil, log),
		Log:     log,
	}
	r := NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return v
}

func wantStatus(t *testing.T, resp *http.Response, code int, body []byte) {
	t.Helper()
	if resp.StatusCode != code {
		t.Fatalf("%s %s: status %d, want %d (body %s)",
			resp.Request.Method, resp.Request.URL, resp.StatusCode, code, body)
	}
}

func wantError(t *testing.T, resp *http.Response, code int, msg string, body []byte) {
	t.Helper()
	wantStatus(t, resp, code, body)
	got := decode[map[string]string](t, body)
	if got["error"] != msg {
		t.Fatalf("error message: got %q, want %q", got["error"], msg)
	}
}

const widgetJSON = `{"productId":1,"productName":"Widget","description":"a widget","price":10,"stock":5,"imageUrl":"x"}`

func TestCheckoutCancelScenario(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)

	// checkout 2 of 5
	resp, body = do(t, http.MethodPut, srv.URL+"/api/search?id=1&quantity=2", "")
	wantStatus(t, resp, http.StatusOK, body)
	out := decode[struct {
		Success        string       `json:"success"`
		UpdatedProduct shop.Product `json:"updatedProduct"`
		NewOrder       shop.Order   `json:"newOrder"`
	}](t, body)
	if out.Success != "Stock and order updated successfully" {
		t.Fatalf("success message: %q", out.Success)
	}
	if out.UpdatedProduct.Stock != 3 {
		t.Fatalf("stock: got %d, want 3", out.UpdatedProduct.Stock)
	}
	if out.NewOrder.TotalCost != 20 || out.NewOrder.Quantity != 2 {
		t.Fatalf("order: %+v", out.NewOrder)
	}

	// status is Pending
	resp, body = do(t, http.MethodGet, srv.URL+"/api/status?orderid="+out.NewOrder.ID, "")
	wantStatus(t, resp, http.StatusOK, body)
	if s := decode[string](t, body); s != "Pending" {
		t.Fatalf("status: got %q, want Pending", s)
	}

	// address update keeps the order id
	resp, body = do(t, http.MethodPost, srv.URL+"/api/order?id=1&address=221B+Baker+Street", "")
	wantStatus(t, resp, http.StatusOK, body)
	upd := decode[struct {
		UpdatedOrder shop.Order `json:"updatedOrder"`
	}](t, body)
	if upd.UpdatedOrder.ID != out.NewOrder.ID {
		t.Fatalf("order id reassigned: %q -> %q", out.NewOrder.ID, upd.UpdatedOrder.ID)
	}
	if upd.UpdatedOrder.Address != "221B Baker Street" {
		t.Fatalf("address: %q", upd.UpdatedOrder.Address)
	}

	// cancel restores stock
	resp, body = do(t, http.MethodDelete, srv.URL+"/api/cancel?cancelid="+out.NewOrder.ID, "")
	wantStatus(t, resp, http.StatusOK, body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/details?id=1", "")
	wantStatus(t, resp, http.StatusOK, body)
	if p := decode[shop.Product](t, body); p.Stock != 5 {
		t.Fatalf("stock after cancel: got %d, want 5", p.Stock)
	}

	// the cancelled order is gone
	resp, body = do(t, http.MethodGet, srv.URL+"/api/status?orderid="+out.NewOrder.ID, "")
	wantError(t, resp, http.StatusNotFound, "Order not found", body)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/cancel?cancelid="+out.NewOrder.ID, "")
	wantError(t, resp, http.StatusNotFound, "Order not found", body)
}

func TestAddProductValidation(t *testing.T) {
	srv := newServer(t)

	noPrice := `{"productId":1,"productName":"Widget","stock":5,"imageUrl":"x"}`
	resp, body := do(t, http.MethodPost, srv.URL+"/api", noPrice)
	wantError(t, resp, http.StatusBadRequest, "Invalid request body", body)

	resp, body = do(t, http.MethodPost, srv.URL+"/api", "{not json")
	wantError(t, resp, http.StatusBadRequest, "Invalid request body", body)

	resp, body = do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)
	resp, body = do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantError(t, resp, http.StatusBadRequest, "Product with the same productId already exists", body)
}

func TestSearch(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/search", "")
	wantError(t, resp, http.StatusBadRequest, "Missing searchParam in the request body", body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/search?searchParam=gizmo", "")
	wantError(t, resp, http.StatusNotFound, "Product not found", body)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/search?searchParam=widg", "")
	wantStatus(t, resp, http.StatusOK, body)
	if p := decode[shop.Product](t, body); p.ID != 1 {
		t.Fatalf("search result: %+v", p)
	}
}

func TestCheckoutValidation(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)

	const missing = "Missing id or quantity in the request query parameters"
	for _, q := range []string{"", "?id=1", "?quantity=2", "?id=1&quantity=abc", "?id=1&quantity=0"} {
		resp, body = do(t, http.MethodPut, srv.URL+"/api/search"+q, "")
		wantError(t, resp, http.StatusBadRequest, missing, body)
	}

	resp, body = do(t, http.MethodPut, srv.URL+"/api/search?id=99&quantity=1", "")
	wantError(t, resp, http.StatusNotFound, "Product not found", body)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/search?id=1&quantity=6", "")
	wantError(t, resp, http.StatusBadRequest, "Insufficient stock", body)
}

func TestUpdateStockPrice(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/id?id=1&quantity=9", "")
	wantStatus(t, resp, http.StatusOK, body)
	one := decode[map[string]json.RawMessage](t, body)
	if s := decode[string](t, one["success"]); s != "Stock updated successfully" {
		t.Fatalf("success: %q", s)
	}

	resp, body = do(t, http.MethodPut, srv.URL+"/api/id?id=1&price=19.5", "")
	wantStatus(t, resp, http.StatusOK, body)
	one = decode[map[string]json.RawMessage](t, body)
	if s := decode[string](t, one["success"]); s != "price updated successfully" {
		t.Fatalf("success: %q", s)
	}

	resp, body = do(t, http.MethodPut, srv.URL+"/api/id?id=1&quantity=4&price=7", "")
	wantStatus(t, resp, http.StatusOK, body)
	out := decode[struct {
		Success        string       `json:"success"`
		UpdatedProduct shop.Product `json:"updatedProduct"`
	}](t, body)
	if out.Success != "price and stock updated successfully" {
		t.Fatalf("success: %q", out.Success)
	}
	if out.UpdatedProduct.Stock != 4 || out.UpdatedProduct.Price != 7 {
		t.Fatalf("product: %+v", out.UpdatedProduct)
	}

	// neither field must still send a response
	resp, body = do(t, http.MethodPut, srv.URL+"/api/id?id=1", "")
	wantError(t, resp, http.StatusBadRequest, "Missing id or quantity in the request query parameters", body)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/id?id=99&quantity=1", "")
	wantError(t, resp, http.StatusNotFound, "Product not found", body)
}

func TestDeleteProduct(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/id?id=abc", "")
	wantError(t, resp, http.StatusBadRequest, "Invalid id parameter", body)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/id?id=1", "")
	wantStatus(t, resp, http.StatusOK, body)
	if got := decode[map[string]string](t, body); got["success"] != "Product deleted successfully" {
		t.Fatalf("success: %q", got["success"])
	}

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/id?id=1", "")
	wantError(t, resp, http.StatusNotFound, "Product not found", body)
}

func TestSetOrderAddressNotFound(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/order?id=1&address=x", "")
	wantError(t, resp, http.StatusNotFound, "Order not found", body)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/order?id=abc&address=x", "")
	wantError(t, resp, http.StatusNotFound, "Order not found", body)
}

func TestCancelWithDeletedProduct(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, http.MethodPost, srv.URL+"/api", widgetJSON)
	wantStatus(t, resp, http.StatusOK, body)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/search?id=1&quantity=2", "")
	wantStatus(t, resp, http.StatusOK, body)
	out := decode[struct {
		NewOrder shop.Order `json:"newOrder"`
	}](t, body)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/id?id=1", "")
	wantStatus(t, resp, http.StatusOK, body)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/cancel?cancelid="+out.NewOrder.ID, "")
	wantError(t, resp, http.StatusNotFound, "Product not found", body)
}
