package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ExternalProduct is a raw record from the Fake Store API.
type ExternalProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *models.Rating  `json:"rating"`
}

// FakeStoreClient talks to the third-party read-only product catalog.
// Every call carries a bounded timeout; repeated upstream failures trip a
// circuit breaker so a dead upstream fails fast instead of eating the full
// timeout per request.
type FakeStoreClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// NewFakeStoreClient creates a Fake Store API client.
func NewFakeStoreClient(baseURL string, timeout time.Duration) *FakeStoreClient {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "fakestore",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &FakeStoreClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  util.GetLogger(),
	}
}

// getJSON performs a GET through the circuit breaker and decodes the body.
func (c *FakeStoreClient) getJSON(ctx context.Context, path string, out interface{}) error {
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fake store request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fake store returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})

	util.ExternalCatalogRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		util.ExternalCatalogFailuresTotal.Inc()
		c.logger.Warn("Fake store call failed",
			zap.String("path", path),
			zap.Error(err))
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode fake store response: %w", err)
	}

	return nil
}

// Product fetches a single product by its external id.
func (c *FakeStoreClient) Product(ctx context.Context, id string) (*ExternalProduct, error) {
	var product *ExternalProduct
	if err := c.getJSON(ctx, "/products/"+id, &product); err != nil {
		return nil, err
	}

	// The upstream answers unknown ids with 200 and a null body.
	if product == nil || product.ID == 0 {
		return nil, fmt.Errorf("fake store has no product with id %s", id)
	}

	return product, nil
}

// Products fetches the full external catalog.
func (c *FakeStoreClient) Products(ctx context.Context) ([]ExternalProduct, error) {
	var products []ExternalProduct
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories fetches the external catalog's category list.
func (c *FakeStoreClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ProductsByCategory fetches external products for one category.
func (c *FakeStoreClient) ProductsByCategory(ctx context.Context, category string) ([]ExternalProduct, error) {
	var products []ExternalProduct
	if err := c.getJSON(ctx, "/products/category/"+category, &products); err != nil {
		return nil, err
	}
	return products, nil
}
