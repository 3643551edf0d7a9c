package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary fields go over the wire as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a record in the local product store.
type Product struct {
	ID          string          `db:"id" json:"_id"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    string          `db:"image_url" json:"imageUrl"`
	Description string          `db:"description" json:"description,omitempty"`
	Category    string          `db:"category" json:"category"`
	Stock       int             `db:"stock" json:"stock"`
	IsActive    bool            `db:"is_active" json:"isActive"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// CatalogProduct is a product as presented by the merged browsing API,
// regardless of which source it came from.
type CatalogProduct struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	Source      string          `json:"source,omitempty"`
	Rating      *Rating         `json:"rating,omitempty"`
}

// Rating is the external catalog's review summary, passed through untouched.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// CartLine is a single caller-supplied cart entry. Untrusted input; the
// checkout service validates it, so no binding tags here.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PricedLine is a cart line after resolution and pricing. Immutable once
// computed; subtotal is rounded to 2 decimal places.
type PricedLine struct {
	ProductID string          `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
	ImageURL  string          `db:"image_url" json:"imageUrl"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is one finalized checkout, appended to a user's history and never
// mutated afterwards.
type Order struct {
	OrderID    string          `db:"order_id" json:"orderId"`
	Items      []PricedLine    `json:"items"`
	TotalPrice decimal.Decimal `db:"total_price" json:"totalPrice"`
	Status     string          `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// UserAccount is the durable per-email identity orders hang off. The email
// is stored lowercased and is the unique key.
type UserAccount struct {
	ID        int64     `db:"id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UserDetails is the name/email pair submitted with a checkout.
type UserDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Receipt is the caller-facing projection of a completed order. It echoes
// the submitted user details, not the stored account name.
type Receipt struct {
	ReceiptID     string          `json:"receiptId"`
	UserDetails   UserDetails     `json:"userDetails"`
	Items         []PricedLine    `json:"items"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	ItemCount     int             `json:"itemCount"`
	TotalQuantity int             `json:"totalQuantity"`
	Timestamp     string          `json:"timestamp"`
	Status        string          `json:"status"`
}

// LineValidation is one entry of the validate-only report.
type LineValidation struct {
	ProductID      string `json:"productId"`
	IsValid        bool   `json:"isValid"`
	HasStock       bool   `json:"hasStock"`
	AvailableStock int    `json:"availableStock"`
}
