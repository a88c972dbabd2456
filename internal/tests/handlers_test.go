package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "cravecart/internal/api/http"
	"cravecart/internal/cart"
	"cravecart/internal/catalog"
	"cravecart/internal/domain"
	"cravecart/internal/mocks"
	"cravecart/internal/orders"
	"cravecart/internal/payment"
	"cravecart/internal/upstream"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeFetcher struct {
	pages    map[int][]domain.Cuisine
	filtered []domain.Cuisine
}

func (f *fakeFetcher) GetItemList(ctx context.Context, page, count int) ([]domain.Cuisine, error) {
	cuisines, ok := f.pages[page]
	if !ok {
		return nil, upstream.ErrNoCuisines
	}
	return cuisines, nil
}

func (f *fakeFetcher) GetItemsByFilter(ctx context.Context, minRating float64) ([]domain.Cuisine, error) {
	if f.filtered == nil {
		return nil, assert.AnError
	}
	return f.filtered, nil
}

type fakeSwitcher struct {
	language string
}

func (f *fakeSwitcher) SetLanguage(language string) {
	f.language = language
}

type fixture struct {
	router   http.Handler
	ledger   *cart.Ledger
	history  *orders.History
	gateway  *mocks.Gateway
	switcher *fakeSwitcher
}

func newFixture(fetcher catalog.Fetcher) *fixture {
	ledger := cart.NewLedger(nil)
	history := orders.NewHistory(nil, nil)
	loader := catalog.NewLoader(fetcher)
	gateway := new(mocks.Gateway)
	switcher := &fakeSwitcher{}

	checkout := payment.NewService(gateway, ledger, history, nil)
	handler := httpapi.NewHandler(ledger, loader, history, checkout, switcher)

	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	return &fixture{
		router:   r,
		ledger:   ledger,
		history:  history,
		gateway:  gateway,
		switcher: switcher,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func addItemBody(id, name, price string) map[string]interface{} {
	return map[string]interface{}{
		"cuisine_id": "3",
		"item": map[string]string{
			"id":    id,
			"name":  name,
			"price": price,
		},
	}
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(&fakeFetcher{})

	w := f.do(t, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCartHandlers(t *testing.T) {
	f := newFixture(&fakeFetcher{})

	w := f.do(t, "POST", "/api/cart/items", addItemBody("12", "Masala Dosa", "₹150"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, "POST", "/api/cart/items", addItemBody("12", "Masala Dosa", "₹150"))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items  []domain.CartLine `json:"items"`
		Totals domain.CartTotals `json:"totals"`
	}
	w = f.do(t, "GET", "/api/cart", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.InDelta(t, 300.0, resp.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 315.0, resp.Totals.GrandTotal, 1e-9)

	w = f.do(t, "PUT", "/api/cart/items/12", map[string]int{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, f.ledger.Lines()[0].Quantity)

	w = f.do(t, "DELETE", "/api/cart/items/12", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.ledger.Lines())
}

func TestAddCartItemInvalidPayload(t *testing.T) {
	f := newFixture(&fakeFetcher{})

	w := f.do(t, "POST", "/api/cart/items", map[string]string{"bogus": "yes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewBufferString("{invalid}"))
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCuisineHandlers(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int][]domain.Cuisine{
			1: {{ID: "1", Name: "South Indian", Items: []domain.MenuItem{{ID: "a", Name: "Dosa", Rating: "4.5", Price: "150"}}}},
		},
	}
	f := newFixture(fetcher)

	w := f.do(t, "POST", "/api/cuisines/more", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cuisines []domain.Cuisine `json:"cuisines"`
		HasMore  bool             `json:"has_more"`
	}
	w = f.do(t, "GET", "/api/cuisines", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Cuisines, 1)
	assert.True(t, resp.HasMore)

	w = f.do(t, "GET", "/api/dishes/top", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dosa")
}

func TestLoadMoreEmptyCatalog(t *testing.T) {
	f := newFixture(&fakeFetcher{pages: map[int][]domain.Cuisine{}})

	w := f.do(t, "POST", "/api/cuisines/more", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetLanguageHandler(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int][]domain.Cuisine{
			1: {{ID: "1", Name: "उत्तर भारतीय"}},
		},
	}
	f := newFixture(fetcher)

	w := f.do(t, "POST", "/api/language", map[string]string{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/api/language", map[string]string{"language": "hi"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", f.switcher.language)
}

func TestCheckoutHandler(t *testing.T) {
	f := newFixture(&fakeFetcher{})
	f.gateway.On("MakePayment", mock.Anything, mock.Anything).Return("TXN-123", nil).Once()

	f.do(t, "POST", "/api/cart/items", addItemBody("12", "Masala Dosa", "₹150"))

	w := f.do(t, "POST", "/api/checkout", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var receipt payment.Receipt
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "TXN-123", receipt.TxnRef)
	assert.Empty(t, f.ledger.Lines())
	assert.Len(t, f.history.Recent(), 1)
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	f := newFixture(&fakeFetcher{})

	w := f.do(t, "POST", "/api/checkout", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandlerGatewayError(t *testing.T) {
	f := newFixture(&fakeFetcher{})
	f.gateway.On("MakePayment", mock.Anything, mock.Anything).
		Return("", &upstream.ServerError{Message: "insufficient balance"}).Once()

	f.do(t, "POST", "/api/cart/items", addItemBody("12", "Masala Dosa", "₹150"))

	w := f.do(t, "POST", "/api/checkout", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient balance")
	assert.Len(t, f.ledger.Lines(), 1)
}

func TestOrderHandlers(t *testing.T) {
	f := newFixture(&fakeFetcher{})
	f.gateway.On("MakePayment", mock.Anything, mock.Anything).Return("TXN-123", nil).Once()

	f.do(t, "POST", "/api/cart/items", addItemBody("12", "Masala Dosa", "₹150"))
	f.do(t, "POST", "/api/checkout", nil)

	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	w := f.do(t, "GET", "/api/orders", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 1)

	w = f.do(t, "GET", "/api/orders/"+resp.Orders[0].ID+"/qrcode", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = f.do(t, "GET", "/api/orders/unknown/qrcode", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
