package service

import (
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReceipt(t *testing.T) {
	order := &models.Order{
		OrderID: "RCP-1700000000000-AB12CD3",
		Items: []models.PricedLine{
			{ProductID: "api-1", Name: "Backpack", Quantity: 2, Subtotal: decimal.NewFromFloat(19.98)},
			{ProductID: "abc", Name: "Bottle", Quantity: 3, Subtotal: decimal.NewFromFloat(59.97)},
		},
		TotalPrice: decimal.NewFromFloat(79.95),
		Status:     models.OrderStatusCompleted,
		CreatedAt:  time.Now(),
	}
	details := models.UserDetails{Name: "Jane Doe", Email: "Jane@Example.com"}

	receipt := BuildReceipt(order, details)

	assert.Equal(t, order.OrderID, receipt.ReceiptID)
	assert.Equal(t, details, receipt.UserDetails)
	assert.Equal(t, 2, receipt.ItemCount)
	assert.Equal(t, 5, receipt.TotalQuantity)
	assert.Equal(t, "79.95", receipt.TotalPrice.String())
	assert.Equal(t, models.OrderStatusCompleted, receipt.Status)

	parsed, err := time.Parse(time.RFC3339, receipt.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}
