package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cravecart/internal/domain"
	"cravecart/internal/orders"
	"cravecart/internal/payment"
	"cravecart/internal/upstream"

	"github.com/gorilla/mux"
)

type CartService interface {
	AddItem(item domain.MenuItem, cuisineID string)
	RemoveItem(itemID string)
	UpdateQuantity(itemID string, quantity int)
	Lines() []domain.CartLine
	Totals() domain.CartTotals
}

type CatalogService interface {
	Cuisines() []domain.Cuisine
	TopDishes() []domain.MenuItem
	HasMore() bool
	LoadMore(ctx context.Context) error
	Refresh(ctx context.Context) error
}

type OrderService interface {
	Recent() []domain.Order
}

type CheckoutService interface {
	Checkout(ctx context.Context) (payment.Receipt, error)
}

type LanguageSwitcher interface {
	SetLanguage(language string)
}

type Handler struct {
	Cart     CartService
	Catalog  CatalogService
	Orders   OrderService
	Checkout CheckoutService
	Language LanguageSwitcher
}

func NewHandler(cart CartService, catalog CatalogService, orderSvc OrderService, checkout CheckoutService, language LanguageSwitcher) *Handler {
	return &Handler{
		Cart:     cart,
		Catalog:  catalog,
		Orders:   orderSvc,
		Checkout: checkout,
		Language: language,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/cuisines", h.getCuisines).Methods("GET")
	r.HandleFunc("/api/cuisines/more", h.loadMoreCuisines).Methods("POST")
	r.HandleFunc("/api/cuisines/refresh", h.refreshCuisines).Methods("POST")
	r.HandleFunc("/api/dishes/top", h.getTopDishes).Methods("GET")
	r.HandleFunc("/api/language", h.setLanguage).Methods("POST")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{itemId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "cravecart",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getCuisines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cuisines": h.Catalog.Cuisines(),
		"has_more": h.Catalog.HasMore(),
	})
}

func (h *Handler) loadMoreCuisines(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.LoadMore(r.Context()); err != nil {
		writeCatalogError(w, err)
		return
	}
	h.getCuisines(w, r)
}

func (h *Handler) refreshCuisines(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Refresh(r.Context()); err != nil {
		writeCatalogError(w, err)
		return
	}
	h.getCuisines(w, r)
}

func (h *Handler) getTopDishes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dishes": h.Catalog.TopDishes(),
	})
}

func (h *Handler) setLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Language != "en" && body.Language != "hi" {
		http.Error(w, "Unsupported language", http.StatusBadRequest)
		return
	}

	// Switching language resets the catalog session; the cart survives.
	h.Language.SetLanguage(body.Language)
	if err := h.Catalog.Refresh(r.Context()); err != nil {
		writeCatalogError(w, err)
		return
	}
	h.getCuisines(w, r)
}

type addItemRequest struct {
	CuisineID string          `json:"cuisine_id"`
	Item      domain.MenuItem `json:"item"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  h.Cart.Lines(),
		"totals": h.Cart.Totals(),
	})
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Item.ID == "" || body.Item.Name == "" {
		http.Error(w, "Invalid item payload", http.StatusBadRequest)
		return
	}

	h.Cart.AddItem(body.Item, body.CuisineID)
	h.getCart(w, r)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Cart.UpdateQuantity(itemID, body.Quantity)
	h.getCart(w, r)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	h.Cart.RemoveItem(mux.Vars(r)["itemId"])
	h.getCart(w, r)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Checkout.Checkout(r.Context())
	if err != nil {
		if errors.Is(err, payment.ErrEmptyCart) {
			http.Error(w, "Cart is empty", http.StatusBadRequest)
			return
		}
		var serverErr *upstream.ServerError
		if errors.As(err, &serverErr) {
			http.Error(w, serverErr.Message, http.StatusBadGateway)
			return
		}
		http.Error(w, "Payment failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": h.Orders.Recent(),
	})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	found := false
	for _, order := range h.Orders.Recent() {
		if order.ID == orderID {
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	qr, err := orders.ReceiptQR(orderID)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

func writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, upstream.ErrNoCuisines) {
		http.Error(w, "No cuisines found", http.StatusNotFound)
		return
	}
	if errors.Is(err, context.Canceled) {
		// A newer load superseded this one.
		http.Error(w, "Load superseded", http.StatusConflict)
		return
	}
	var serverErr *upstream.ServerError
	if errors.As(err, &serverErr) {
		http.Error(w, serverErr.Message, http.StatusBadGateway)
		return
	}
	http.Error(w, "Connection error: "+err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
