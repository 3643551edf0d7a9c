package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Catalog sources accepted by the browsing endpoints.
const (
	SourceDB   = "db"
	SourceAPI  = "api"
	SourceBoth = "both"
)

const externalSourceLabel = "Fake Store API"

// ProductCatalogStore is the local-store surface the browsing service needs.
type ProductCatalogStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetActiveProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	InsertProducts(ctx context.Context, products []models.Product) ([]models.Product, error)
	DeleteAllProducts(ctx context.Context) error
}

// ExternalCatalogClient is the external-catalog surface the browsing
// service needs.
type ExternalCatalogClient interface {
	Product(ctx context.Context, id string) (*catalog.ExternalProduct, error)
	Products(ctx context.Context) ([]catalog.ExternalProduct, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]catalog.ExternalProduct, error)
}

// ListingCache caches assembled listings. May be nil; everything degrades
// to uncached.
type ListingCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{})
	Invalidate(ctx context.Context, keys ...string)
}

// ProductListing is the merged browsing response.
type ProductListing struct {
	Count     int                     `json:"count"`
	Source    string                  `json:"source"`
	Breakdown ListingBreakdown        `json:"breakdown"`
	Data      []models.CatalogProduct `json:"data"`
}

// ListingBreakdown counts products per source in a listing.
type ListingBreakdown struct {
	Database int `json:"database"`
	API      int `json:"api"`
}

// ProductService serves the merged catalog browsing surface: local store
// plus external catalog, with short-TTL caching on assembled listings.
// Checkout never reads through here; pricing always resolves fresh.
type ProductService struct {
	store    ProductCatalogStore
	external ExternalCatalogClient
	cache    ListingCache
	logger   *zap.Logger
}

// NewProductService creates a new product browsing service
func NewProductService(store ProductCatalogStore, external ExternalCatalogClient, cache ListingCache) *ProductService {
	return &ProductService{
		store:    store,
		external: external,
		cache:    cache,
		logger:   util.GetLogger(),
	}
}

// List returns the merged product listing for a source selector
// (db, api or both). An unreachable external catalog degrades the listing
// to local products only.
func (p *ProductService) List(ctx context.Context, source string) (*ProductListing, error) {
	if source == "" {
		source = SourceBoth
	}

	cacheKey := "products:" + source
	if p.cache != nil {
		var cached ProductListing
		if p.cache.GetJSON(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	listing := &ProductListing{Source: source, Data: []models.CatalogProduct{}}

	if source == SourceDB || source == SourceBoth {
		local, err := p.store.GetActiveProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list local products: %w", err)
		}
		for _, product := range local {
			listing.Data = append(listing.Data, localCatalogProduct(product))
		}
		listing.Breakdown.Database = len(local)
	}

	if source == SourceAPI || source == SourceBoth {
		external, err := p.external.Products(ctx)
		if err != nil {
			p.logger.Warn("External catalog unavailable, serving local products only", zap.Error(err))
		} else {
			for _, product := range external {
				listing.Data = append(listing.Data, externalCatalogProduct(product))
			}
			listing.Breakdown.API = len(external)
		}
	}

	listing.Count = len(listing.Data)

	if p.cache != nil {
		p.cache.SetJSON(ctx, cacheKey, listing)
	}
	return listing, nil
}

// Get returns a single product from whichever source its id points at.
func (p *ProductService) Get(ctx context.Context, id string) (*models.CatalogProduct, error) {
	ref := catalog.ParseRef(id)

	if ref.Source() == catalog.SourceExternal {
		external, err := p.external.Product(ctx, ref.Key())
		if err != nil {
			return nil, &catalog.NotFoundError{Ref: ref}
		}
		product := externalCatalogProduct(*external)
		return &product, nil
	}

	local, err := p.store.GetProductByID(ctx, ref.Key())
	if err != nil {
		return nil, &catalog.NotFoundError{Ref: ref}
	}
	product := localCatalogProduct(*local)
	return &product, nil
}

// ListByCategory returns the merged listing for one category.
func (p *ProductService) ListByCategory(ctx context.Context, category, source string) (*ProductListing, error) {
	if source == "" {
		source = SourceBoth
	}

	listing := &ProductListing{Source: source, Data: []models.CatalogProduct{}}

	if source == SourceDB || source == SourceBoth {
		local, err := p.store.GetProductsByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to list local products: %w", err)
		}
		for _, product := range local {
			listing.Data = append(listing.Data, localCatalogProduct(product))
		}
		listing.Breakdown.Database = len(local)
	}

	if source == SourceAPI || source == SourceBoth {
		external, err := p.external.ProductsByCategory(ctx, strings.ToLower(category))
		if err != nil {
			p.logger.Warn("External catalog category lookup failed",
				zap.String("category", category),
				zap.Error(err))
		} else {
			for _, product := range external {
				listing.Data = append(listing.Data, externalCatalogProduct(product))
			}
			listing.Breakdown.API = len(external)
		}
	}

	listing.Count = len(listing.Data)
	return listing, nil
}

// ExternalProducts is the raw external catalog passthrough.
func (p *ProductService) ExternalProducts(ctx context.Context) ([]catalog.ExternalProduct, error) {
	return p.external.Products(ctx)
}

// ExternalCategories is the external category list passthrough.
func (p *ProductService) ExternalCategories(ctx context.Context) ([]string, error) {
	return p.external.Categories(ctx)
}

// Import pulls the full external catalog into the local store, optionally
// clearing existing products first. Imported records get fresh store keys
// and synthesized stock.
func (p *ProductService) Import(ctx context.Context, clear bool) ([]models.Product, error) {
	external, err := p.external.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch external catalog: %w", err)
	}

	products := make([]models.Product, 0, len(external))
	for _, e := range external {
		products = append(products, models.Product{
			Name:        e.Title,
			Price:       e.Price,
			ImageURL:    e.Image,
			Description: e.Description,
			Category:    capitalize(e.Category),
			Stock:       rand.Intn(100) + 10,
			IsActive:    true,
		})
	}

	if clear {
		if err := p.store.DeleteAllProducts(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear products: %w", err)
		}
		p.logger.Info("Cleared existing products before import")
	}

	inserted, err := p.store.InsertProducts(ctx, products)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Invalidate(ctx, "products:"+SourceDB, "products:"+SourceBoth)
	}

	p.logger.Info("Imported external catalog", zap.Int("count", len(inserted)))
	return inserted, nil
}

func localCatalogProduct(p models.Product) models.CatalogProduct {
	return models.CatalogProduct{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
	}
}

func externalCatalogProduct(e catalog.ExternalProduct) models.CatalogProduct {
	return models.CatalogProduct{
		ID:          catalog.ExternalRef(strconv.Itoa(e.ID)).String(),
		Name:        e.Title,
		Price:       e.Price,
		ImageURL:    e.Image,
		Description: e.Description,
		Category:    capitalize(e.Category),
		Stock:       rand.Intn(50) + 20,
		IsActive:    true,
		Source:      externalSourceLabel,
		Rating:      e.Rating,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
