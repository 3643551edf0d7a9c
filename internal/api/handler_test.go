package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	snapshots map[string]*catalog.Snapshot
}

func (f *fakeResolver) Resolve(_ context.Context, ref catalog.ProductRef) (*catalog.Snapshot, error) {
	if snapshot, ok := f.snapshots[ref.String()]; ok {
		return snapshot, nil
	}
	return nil, &catalog.NotFoundError{Ref: ref}
}

type fakeLedger struct {
	orders map[string][]models.Order
	names  map[string]string
}

func (f *fakeLedger) RecordOrder(_ context.Context, email, name string, lines []models.PricedLine, total decimal.Decimal) (*models.Order, error) {
	key := store.NormalizeEmail(email)
	order := models.Order{
		OrderID:    fmt.Sprintf("RCP-%d-TEST%03d", time.Now().UnixMilli(), len(f.orders[key])),
		Items:      lines,
		TotalPrice: total,
		Status:     models.OrderStatusCompleted,
		CreatedAt:  time.Now(),
	}
	f.orders[key] = append(f.orders[key], order)
	f.names[key] = name
	return &order, nil
}

func (f *fakeLedger) GetUserOrders(_ context.Context, email string) (*models.UserAccount, []models.Order, error) {
	key := store.NormalizeEmail(email)
	orders, ok := f.orders[key]
	if !ok {
		return nil, nil, fmt.Errorf("user %s: %w", key, store.ErrNotFound)
	}
	return &models.UserAccount{Name: f.names[key], Email: key}, orders, nil
}

type fakePublisher struct{}

func (f *fakePublisher) PublishOrderCompleted(_ context.Context, _ *models.OrderCompletedEvent) error {
	return nil
}

func newTestRouter() (*gin.Engine, *fakeLedger) {
	gin.SetMode(gin.TestMode)

	resolver := &fakeResolver{snapshots: map[string]*catalog.Snapshot{
		"api-1": {
			Ref:            catalog.ParseRef("api-1"),
			Name:           "Backpack",
			Price:          decimal.NewFromFloat(9.99),
			AvailableStock: catalog.ExternalStock,
		},
		"abc123": {
			Ref:            catalog.ParseRef("abc123"),
			Name:           "Water Bottle",
			Price:          decimal.NewFromFloat(19.99),
			AvailableStock: 3,
		},
	}}
	ledger := &fakeLedger{
		orders: make(map[string][]models.Order),
		names:  make(map[string]string),
	}

	checkout := service.NewCheckoutService(resolver, ledger, &fakePublisher{})

	router := gin.New()
	handler := NewHandler(checkout, nil, "test")
	handler.SetupRoutes(router)
	return router, ledger
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpointSuccess(t *testing.T) {
	router, ledger := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout", `{
		"cartItems": [{"productId": "api-1", "quantity": 2}],
		"userDetails": {"name": "Jane Doe", "email": "jane@example.com"}
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Receipt struct {
			ReceiptID     string  `json:"receiptId"`
			TotalPrice    float64 `json:"totalPrice"`
			ItemCount     int     `json:"itemCount"`
			TotalQuantity int     `json:"totalQuantity"`
			Status        string  `json:"status"`
		} `json:"receipt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.Receipt.ReceiptID, "RCP-"))
	assert.Equal(t, 19.98, resp.Receipt.TotalPrice)
	assert.Equal(t, 1, resp.Receipt.ItemCount)
	assert.Equal(t, 2, resp.Receipt.TotalQuantity)
	assert.Equal(t, "completed", resp.Receipt.Status)

	assert.Len(t, ledger.orders["jane@example.com"], 1)
}

func TestCheckoutEndpointEmptyCart(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout", `{
		"cartItems": [],
		"userDetails": {"name": "Jane Doe", "email": "jane@example.com"}
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty or invalid")
}

func TestCheckoutEndpointBadEmail(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout", `{
		"cartItems": [{"productId": "api-1", "quantity": 1}],
		"userDetails": {"name": "Jane Doe", "email": "not-an-email"}
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format")
}

func TestCheckoutEndpointUnknownProduct(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout", `{
		"cartItems": [{"productId": "api-404", "quantity": 1}],
		"userDetails": {"name": "Jane Doe", "email": "jane@example.com"}
	}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "api-404")
}

func TestCheckoutEndpointInsufficientStock(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout", `{
		"cartItems": [{"productId": "abc123", "quantity": 5}],
		"userDetails": {"name": "Jane Doe", "email": "jane@example.com"}
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock for Water Bottle")
	assert.Contains(t, w.Body.String(), "Available: 3")
}

func TestValidateEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout/validate", `{
		"cartItems": [
			{"productId": "api-1", "quantity": 2},
			{"productId": "missing", "quantity": 1}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                    `json:"success"`
		Results []models.LineValidation `json:"validationResults"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].IsValid)
	assert.Equal(t, 100, resp.Results[0].AvailableStock)
	assert.False(t, resp.Results[1].IsValid)
}

func TestValidateEndpointBadBody(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/checkout/validate", `{"cartItems": null}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid cart data")
}

func TestOrderHistoryEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	// Two checkouts for the same email, different casing.
	for _, email := range []string{"jane@example.com", "Jane@Example.com"} {
		w := doJSON(router, http.MethodPost, "/api/checkout", fmt.Sprintf(`{
			"cartItems": [{"productId": "api-1", "quantity": 1}],
			"userDetails": {"name": "Jane Doe", "email": "%s"}
		}`, email))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(router, http.MethodGet, "/api/checkout/orders/jane@example.com", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Email       string         `json:"email"`
			TotalOrders int            `json:"totalOrders"`
			Orders      []models.Order `json:"orders"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jane@example.com", resp.Data.Email)
	assert.Equal(t, 2, resp.Data.TotalOrders)
}

func TestOrderHistoryEndpointUnknownEmail(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodGet, "/api/checkout/orders/nobody@example.com", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No orders found for this email")
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
