package catalog

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExternalStock is the synthetic availability assigned to every resolved
// external product. The external catalog is outside this system's inventory
// control; nothing tracks or decrements these units.
const ExternalStock = 100

// Snapshot is point-in-time product data used for pricing. It is recomputed
// on every resolution and never cached across requests.
type Snapshot struct {
	Ref            ProductRef
	Name           string
	Price          decimal.Decimal
	AvailableStock int
	ImageURL       string
}

// NotFoundError reports a product reference that could not be resolved,
// naming the source that was consulted.
type NotFoundError struct {
	Ref ProductRef
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with ID %s not found in %s", e.Ref, e.Ref.Source())
}

// ProductStore is the local product lookup the resolver depends on.
type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

// ExternalCatalog is the external product lookup the resolver depends on.
type ExternalCatalog interface {
	Product(ctx context.Context, id string) (*ExternalProduct, error)
}

// Resolver turns product references into authoritative snapshots, consulting
// whichever source the reference points at. It never mutates state.
type Resolver struct {
	store    ProductStore
	external ExternalCatalog
	logger   *zap.Logger
}

// NewResolver creates a resolver over the two product sources.
func NewResolver(store ProductStore, external ExternalCatalog) *Resolver {
	return &Resolver{
		store:    store,
		external: external,
		logger:   util.GetLogger(),
	}
}

// Resolve looks up a reference in its backing source. Every lookup failure,
// including external timeouts and upstream errors, surfaces as NotFoundError:
// fail-closed, no product means no sale.
func (r *Resolver) Resolve(ctx context.Context, ref ProductRef) (*Snapshot, error) {
	ctx, span := util.StartSpan(ctx, "Resolver.Resolve")
	defer span.End()

	if ref.Source() == SourceExternal {
		return r.resolveExternal(ctx, ref)
	}
	return r.resolveLocal(ctx, ref)
}

func (r *Resolver) resolveExternal(ctx context.Context, ref ProductRef) (*Snapshot, error) {
	product, err := r.external.Product(ctx, ref.Key())
	if err != nil {
		r.logger.Warn("External product lookup failed",
			zap.String("product_id", ref.String()),
			zap.Error(err))
		return nil, &NotFoundError{Ref: ref}
	}

	return &Snapshot{
		Ref:            ref,
		Name:           product.Title,
		Price:          product.Price,
		AvailableStock: ExternalStock,
		ImageURL:       product.Image,
	}, nil
}

func (r *Resolver) resolveLocal(ctx context.Context, ref ProductRef) (*Snapshot, error) {
	product, err := r.store.GetProductByID(ctx, ref.Key())
	if err != nil {
		r.logger.Warn("Local product lookup failed",
			zap.String("product_id", ref.String()),
			zap.Error(err))
		return nil, &NotFoundError{Ref: ref}
	}

	return &Snapshot{
		Ref:            ref,
		Name:           product.Name,
		Price:          product.Price,
		AvailableStock: product.Stock,
		ImageURL:       product.ImageURL,
	}, nil
}
