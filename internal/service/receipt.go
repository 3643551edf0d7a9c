package service

import (
	"time"

	"storefront/internal/models"
)

// BuildReceipt projects a recorded order into the caller-facing receipt.
// It echoes the submitted user details, not the stored account name, and
// has no failure modes.
func BuildReceipt(order *models.Order, details models.UserDetails) *models.Receipt {
	totalQuantity := 0
	for _, item := range order.Items {
		totalQuantity += item.Quantity
	}

	return &models.Receipt{
		ReceiptID:     order.OrderID,
		UserDetails:   details,
		Items:         order.Items,
		TotalPrice:    order.TotalPrice,
		ItemCount:     len(order.Items),
		TotalQuantity: totalQuantity,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Status:        order.Status,
	}
}
