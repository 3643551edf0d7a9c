package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ProductResolver resolves a product reference to a point-in-time snapshot.
type ProductResolver interface {
	Resolve(ctx context.Context, ref catalog.ProductRef) (*catalog.Snapshot, error)
}

// OrderLedger is the durable per-user order history.
type OrderLedger interface {
	RecordOrder(ctx context.Context, email, name string, lines []models.PricedLine, total decimal.Decimal) (*models.Order, error)
	GetUserOrders(ctx context.Context, email string) (*models.UserAccount, []models.Order, error)
}

// OrderEventPublisher publishes order lifecycle events.
type OrderEventPublisher interface {
	PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error
}

// CheckoutService prices carts against both product sources and turns valid
// ones into recorded orders.
type CheckoutService struct {
	resolver  ProductResolver
	ledger    OrderLedger
	publisher OrderEventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(resolver ProductResolver, ledger OrderLedger, publisher OrderEventPublisher) *CheckoutService {
	return &CheckoutService{
		resolver:  resolver,
		ledger:    ledger,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest is the checkout payload as submitted by the caller.
type CheckoutRequest struct {
	CartItems   []models.CartLine  `json:"cartItems"`
	UserDetails models.UserDetails `json:"userDetails"`
}

// PricedCart is a fully validated and priced cart.
type PricedCart struct {
	Lines []models.PricedLine
	Total decimal.Decimal
}

// OrderHistory is the order-history projection returned to the caller.
type OrderHistory struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	TotalOrders int            `json:"totalOrders"`
	Orders      []models.Order `json:"orders"`
}

// Checkout validates and prices the cart, records the order against the
// find-or-create account for the submitted email, and builds the receipt.
// All-or-nothing: the first failing line rejects the whole cart and nothing
// is written.
func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*models.Receipt, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	if req.UserDetails.Name == "" || req.UserDetails.Email == "" {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, invalidInput("User details (name and email) are required")
	}
	if !emailRegex.MatchString(req.UserDetails.Email) {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, invalidInput("Invalid email format")
	}

	cart, err := s.PriceCart(ctx, req.CartItems)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	order, err := s.ledger.RecordOrder(ctx, req.UserDetails.Email, req.UserDetails.Name, cart.Lines, cart.Total)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("ledger_error").Inc()
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	s.publishOrderCompleted(ctx, order, req.UserDetails.Email)

	receipt := BuildReceipt(order, req.UserDetails)

	util.CheckoutsCompletedTotal.Inc()
	s.logger.Info("Checkout processed",
		zap.String("receipt_id", receipt.ReceiptID),
		zap.String("email", req.UserDetails.Email),
		zap.String("total", cart.Total.String()),
		zap.Int("items", len(cart.Lines)))

	return receipt, nil
}

// PriceCart resolves, validates and prices every cart line in input order.
// The first failing line aborts the whole cart. Subtotals are rounded to
// 2 decimal places per line before summation, and the total is rounded
// again at the end.
func (s *CheckoutService) PriceCart(ctx context.Context, lines []models.CartLine) (*PricedCart, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PriceCart")
	defer span.End()

	if len(lines) == 0 {
		return nil, invalidInput("Cart is empty or invalid")
	}

	priced := make([]models.PricedLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		if line.ProductID == "" {
			return nil, invalidInput("Invalid cart item format")
		}
		if line.Quantity <= 0 {
			return nil, invalidInput("Quantity must be greater than 0")
		}

		snapshot, err := s.resolver.Resolve(ctx, catalog.ParseRef(line.ProductID))
		if err != nil {
			return nil, err
		}

		if line.Quantity > snapshot.AvailableStock {
			return nil, &InsufficientStockError{
				ProductName: snapshot.Name,
				Available:   snapshot.AvailableStock,
			}
		}

		subtotal := snapshot.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.Add(subtotal)

		priced = append(priced, models.PricedLine{
			ProductID: snapshot.Ref.String(),
			Name:      snapshot.Name,
			Price:     snapshot.Price,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
			ImageURL:  snapshot.ImageURL,
		})
	}

	return &PricedCart{Lines: priced, Total: total.Round(2)}, nil
}

// ValidateCart runs the resolution and stock check for every line
// independently, without aborting on failures. Non-committal: it never
// touches the ledger.
func (s *CheckoutService) ValidateCart(ctx context.Context, lines []models.CartLine) []models.LineValidation {
	ctx, span := util.StartSpan(ctx, "CheckoutService.ValidateCart")
	defer span.End()

	util.CartValidationsTotal.Inc()

	results := make([]models.LineValidation, 0, len(lines))
	for _, line := range lines {
		result := models.LineValidation{ProductID: line.ProductID}

		snapshot, err := s.resolver.Resolve(ctx, catalog.ParseRef(line.ProductID))
		if err == nil {
			result.IsValid = true
			result.HasStock = snapshot.AvailableStock >= line.Quantity
			result.AvailableStock = snapshot.AvailableStock
		}

		results = append(results, result)
	}

	return results
}

// OrderHistory returns a user's orders sorted newest first. Unknown emails
// fail with the ledger's not-found error, never an empty history.
func (s *CheckoutService) OrderHistory(ctx context.Context, email string) (*OrderHistory, error) {
	account, orders, err := s.ledger.GetUserOrders(ctx, email)
	if err != nil {
		return nil, err
	}

	return &OrderHistory{
		Name:        account.Name,
		Email:       account.Email,
		TotalOrders: len(orders),
		Orders:      orders,
	}, nil
}

// publishOrderCompleted emits the order event best-effort: the order is
// already durable, so a broker failure is logged and never fails the
// checkout.
func (s *CheckoutService) publishOrderCompleted(ctx context.Context, order *models.Order, email string) {
	event := &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCompleted,
			Timestamp: time.Now(),
		},
		OrderID:    order.OrderID,
		Email:      email,
		TotalPrice: order.TotalPrice.String(),
		Items:      order.Items,
	}

	if err := s.publisher.PublishOrderCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCompleted event",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}
}

func failureReason(err error) string {
	switch err.(type) {
	case *InvalidInputError:
		return "invalid_input"
	case *InsufficientStockError:
		return "insufficient_stock"
	case *catalog.NotFoundError:
		return "product_not_found"
	default:
		return "internal"
	}
}
