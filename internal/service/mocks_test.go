package service

import (
	"context"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// mockResolver implements ProductResolver over a fixed snapshot set.
// Unknown refs resolve to NotFoundError, like the real resolver.
type mockResolver struct {
	snapshots map[string]*catalog.Snapshot
}

func (m *mockResolver) Resolve(_ context.Context, ref catalog.ProductRef) (*catalog.Snapshot, error) {
	if snapshot, ok := m.snapshots[ref.String()]; ok {
		return snapshot, nil
	}
	return nil, &catalog.NotFoundError{Ref: ref}
}

func snapshot(id, name string, price float64, stock int) *catalog.Snapshot {
	return &catalog.Snapshot{
		Ref:            catalog.ParseRef(id),
		Name:           name,
		Price:          decimal.NewFromFloat(price),
		AvailableStock: stock,
		ImageURL:       "https://img/" + id,
	}
}

type recordedOrder struct {
	Email string
	Name  string
	Lines []models.PricedLine
	Total decimal.Decimal
}

// mockLedger implements OrderLedger, capturing writes.
type mockLedger struct {
	Recorded  []recordedOrder
	RecordErr error

	Account *models.UserAccount
	Orders  []models.Order
	GetErr  error
}

func (m *mockLedger) RecordOrder(_ context.Context, email, name string, lines []models.PricedLine, total decimal.Decimal) (*models.Order, error) {
	if m.RecordErr != nil {
		return nil, m.RecordErr
	}
	m.Recorded = append(m.Recorded, recordedOrder{Email: email, Name: name, Lines: lines, Total: total})
	return &models.Order{
		OrderID:    "RCP-1700000000000-AB12CD3",
		Items:      lines,
		TotalPrice: total,
		Status:     models.OrderStatusCompleted,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *mockLedger) GetUserOrders(_ context.Context, _ string) (*models.UserAccount, []models.Order, error) {
	if m.GetErr != nil {
		return nil, nil, m.GetErr
	}
	return m.Account, m.Orders, nil
}

// mockPublisher implements OrderEventPublisher, capturing events.
type mockPublisher struct {
	Events []*models.OrderCompletedEvent
	Err    error
}

func (m *mockPublisher) PublishOrderCompleted(_ context.Context, event *models.OrderCompletedEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}
