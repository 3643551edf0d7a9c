package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newOrderID generates the externally visible order identifier:
// "RCP-<ms timestamp>-<7-char uppercase alphanumeric>". The millisecond
// prefix keeps ids lexicographically sortable by creation time; the random
// suffix keeps concurrent requests collision-resistant.
func newOrderID() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return fmt.Sprintf("RCP-%d-%s", time.Now().UnixMilli(), suffix)
}

// NormalizeEmail lowercases an email for identity lookup. User identity is
// keyed on the normalized form everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type orderRow struct {
	ID         int64           `db:"id"`
	OrderID    string          `db:"order_id"`
	UserID     int64           `db:"user_id"`
	TotalPrice decimal.Decimal `db:"total_price"`
	Status     string          `db:"status"`
	CreatedAt  time.Time       `db:"created_at"`
}

type orderItemRow struct {
	OrderRef int64 `db:"order_ref"`
	models.PricedLine
}

// RecordOrder is the sole durable side effect of checkout. It finds or
// creates the account for the given email, overwrites the stored name with
// the latest submitted one, and appends a completed order, all in one
// transaction so concurrent checkouts for the same email cannot lose an
// append.
//
// Stock is neither reserved nor decremented here. Two concurrent checkouts
// can both pass the stock check against the same stale value; that is the
// intended behavior of this system, not an oversight.
func (s *Store) RecordOrder(ctx context.Context, email, name string, lines []models.PricedLine, total decimal.Decimal) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err = tx.GetContext(ctx, &user, `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, (xmax = 0) AS created`,
		name, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	row := orderRow{
		OrderID: newOrderID(),
		UserID:  user.ID,
	}
	err = tx.GetContext(ctx, &row, `
		INSERT INTO orders (order_id, user_id, total_price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, user_id, total_price, status, created_at`,
		row.OrderID, row.UserID, total, models.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_ref, product_id, name, price, quantity, subtotal, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.ID, line.ProductID, line.Name, line.Price, line.Quantity, line.Subtotal, line.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	util.OrdersRecordedTotal.Inc()
	if user.Created {
		util.UsersCreatedTotal.Inc()
	}

	return &models.Order{
		OrderID:    row.OrderID,
		Items:      lines,
		TotalPrice: row.TotalPrice,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// GetUserOrders returns the account for an email together with its order
// history sorted newest first. Returns ErrNotFound when no account exists;
// an unknown email is never an empty history.
func (s *Store) GetUserOrders(ctx context.Context, email string) (*models.UserAccount, []models.Order, error) {
	var account models.UserAccount
	err := s.db.GetContext(ctx, &account,
		"SELECT id, name, email, created_at FROM users WHERE email = $1",
		NormalizeEmail(email))
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("user %s: %w", NormalizeEmail(email), ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	var rows []orderRow
	err = s.db.SelectContext(ctx, &rows,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", account.ID)
	if err != nil {
		return nil, nil, err
	}

	orders := make([]models.Order, len(rows))
	index := make(map[int64]int, len(rows))
	ids := make([]int64, len(rows))
	for i, r := range rows {
		orders[i] = models.Order{
			OrderID:    r.OrderID,
			Items:      []models.PricedLine{},
			TotalPrice: r.TotalPrice,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
		}
		index[r.ID] = i
		ids[i] = r.ID
	}

	if len(ids) > 0 {
		query, args, err := sqlx.In(
			"SELECT order_ref, product_id, name, price, quantity, subtotal, image_url FROM order_items WHERE order_ref IN (?) ORDER BY id",
			ids)
		if err != nil {
			return nil, nil, err
		}
		query = s.db.Rebind(query)

		var items []orderItemRow
		if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			i := index[item.OrderRef]
			orders[i].Items = append(orders[i].Items, item.PricedLine)
		}
	}

	return &account, orders, nil
}
