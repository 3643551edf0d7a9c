package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductStore struct {
	products map[string]*models.Product
	err      error
}

func (s *stubProductStore) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	product, ok := s.products[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return product, nil
}

type stubExternalCatalog struct {
	products map[string]*ExternalProduct
	err      error
}

func (s *stubExternalCatalog) Product(_ context.Context, id string) (*ExternalProduct, error) {
	if s.err != nil {
		return nil, s.err
	}
	product, ok := s.products[id]
	if !ok {
		return nil, errors.New("no such product")
	}
	return product, nil
}

func TestResolveLocal(t *testing.T) {
	store := &stubProductStore{products: map[string]*models.Product{
		"abc123": {
			ID:       "abc123",
			Name:     "Water Bottle",
			Price:    decimal.NewFromFloat(19.99),
			ImageURL: "https://img/bottle",
			Stock:    3,
		},
	}}
	resolver := NewResolver(store, &stubExternalCatalog{})

	snapshot, err := resolver.Resolve(context.Background(), ParseRef("abc123"))

	require.NoError(t, err)
	assert.Equal(t, "Water Bottle", snapshot.Name)
	assert.Equal(t, "19.99", snapshot.Price.String())
	assert.Equal(t, 3, snapshot.AvailableStock)
	assert.Equal(t, "abc123", snapshot.Ref.String())
}

func TestResolveExternalAssignsSyntheticStock(t *testing.T) {
	external := &stubExternalCatalog{products: map[string]*ExternalProduct{
		"1": {ID: 1, Title: "Backpack", Price: decimal.NewFromFloat(9.99), Image: "https://img/pack"},
	}}
	resolver := NewResolver(&stubProductStore{}, external)

	snapshot, err := resolver.Resolve(context.Background(), ParseRef("api-1"))

	require.NoError(t, err)
	assert.Equal(t, "Backpack", snapshot.Name)
	assert.Equal(t, ExternalStock, snapshot.AvailableStock)
	assert.Equal(t, "api-1", snapshot.Ref.String())
}

func TestResolveLocalNotFound(t *testing.T) {
	resolver := NewResolver(&stubProductStore{}, &stubExternalCatalog{})

	_, err := resolver.Resolve(context.Background(), ParseRef("missing"))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, SourceLocal, notFound.Ref.Source())
	assert.Contains(t, notFound.Error(), "local store")
}

func TestResolveExternalFailureIsNotFound(t *testing.T) {
	// Upstream timeouts and outages fail closed as not-found.
	external := &stubExternalCatalog{err: errors.New("connection timed out")}
	resolver := NewResolver(&stubProductStore{}, external)

	_, err := resolver.Resolve(context.Background(), ParseRef("api-9"))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "api-9", notFound.Ref.String())
	assert.Contains(t, notFound.Error(), "external catalog")
}
