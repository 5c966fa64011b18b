package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/webstore/shopstock/internal/catalog"
	"github.com/webstore/shopstock/internal/orders"
	"github.com/webstore/shopstock/internal/redisx"
	"github.com/webstore/shopstock/internal/shop"
)

// Handler exposes the storefront API. Redis is optional; when present it
// fronts order-status reads.
type Handler struct {
	Catalog *catalog.Service
	Orders  *orders.Service
	Redis   *redis.Client
	Log     *zap.Logger
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/api/search", h.search)
	r.Put("/api/search", h.checkout)
	r.Post("/api", h.addProduct)
	r.Put("/api/id", h.updateProduct)
	r.Delete("/api/id", h.deleteProduct)
	r.Post("/api/order", h.setOrderAddress)
	r.Get("/api/details", h.productDetails)
	r.Get("/api/status", h.orderStatus)
	r.Delete("/api/cancel", h.cancelOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainErr maps service errors to the API's status codes and exact
// error strings. Anything unclassified is a storage or programming failure
// and surfaces as a bare 500.
func (h *Handler) writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shop.ErrEmptySearch):
		writeErr(w, http.StatusBadRequest, "Missing searchParam in the request body")
	case errors.Is(err, shop.ErrInvalidProduct):
		writeErr(w, http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, shop.ErrDuplicateProduct):
		writeErr(w, http.StatusBadRequest, "Product with the same productId already exists")
	case errors.Is(err, shop.ErrInvalidQuantity), errors.Is(err, shop.ErrNothingToUpdate):
		writeErr(w, http.StatusBadRequest, "Missing id or quantity in the request query parameters")
	case errors.Is(err, shop.ErrInsufficientStock):
		writeErr(w, http.StatusBadRequest, "Insufficient stock")
	case errors.Is(err, shop.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, shop.ErrOrderNotFound):
		writeErr(w, http.StatusNotFound, "Order not found")
	default:
		h.Log.Error("request failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("searchParam"))
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err1 := strconv.Atoi(q.Get("id"))
	qty, err2 := strconv.Atoi(q.Get("quantity"))
	if err1 != nil || err2 != nil {
		writeErr(w, http.StatusBadRequest, "Missing id or quantity in the request query parameters")
		return
	}

	p, o, err := h.Orders.Checkout(r.Context(), id, qty)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        "Stock and order updated successfully",
		"updatedProduct": p,
		"newOrder":       o,
	})
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.Catalog.Add(r.Context(), in)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    "Product added successfully",
		"newProduct": p,
	})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := strconv.Atoi(q.Get("id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Missing id or quantity in the request query parameters")
		return
	}

	var stock *int
	var price *float64
	if v := q.Get("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "Missing id or quantity in the request query parameters")
			return
		}
		stock = &n
	}
	if v := q.Get("price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "Missing id or quantity in the request query parameters")
			return
		}
		price = &f
	}

	p, err := h.Catalog.UpdateStockPrice(r.Context(), id, stock, price)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}

	msg := "Stock updated successfully"
	switch {
	case stock != nil && price != nil:
		msg = "price and stock updated successfully"
	case price != nil:
		msg = "price updated successfully"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        msg,
		"updatedProduct": p,
	})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}
	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "Product deleted successfully"})
}

func (h *Handler) setOrderAddress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := strconv.Atoi(q.Get("id"))
	if err != nil {
		// an unparseable id can never match an order
		writeErr(w, http.StatusNotFound, "Order not found")
		return
	}
	o, err := h.Orders.SetAddress(r.Context(), id, q.Get("address"))
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      "Order updated successfully",
		"updatedOrder": o,
	})
}

func (h *Handler) productDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "Product not found")
		return
	}
	p, err := h.Catalog.Details(r.Context(), id)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) orderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderid")

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	status, err := h.Orders.Status(r.Context(), orderID)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = h.Redis.Set(r.Context(), key, string(status), redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("cancelid")
	if err := h.Orders.Cancel(r.Context(), orderID); err != nil {
		h.writeDomainErr(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(r.Context(), fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err()
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "Order canceled successfully"})
}
