package main

import (
	"context"
	"log"

	"storefront/config"
	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
)

// Seeds the local product store with a small sample catalog.
func main() {
	cfg := config.Load()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Headphones",
			Price:       decimal.NewFromFloat(79.99),
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			Description: "Premium noise-cancelling wireless headphones with 30-hour battery life.",
			Category:    "Electronics",
			Stock:       50,
			IsActive:    true,
		},
		{
			Name:        "Organic Cotton T-Shirt",
			Price:       decimal.NewFromFloat(24.99),
			ImageURL:    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500",
			Description: "Comfortable 100% organic cotton t-shirt available in multiple colors.",
			Category:    "Clothing",
			Stock:       200,
			IsActive:    true,
		},
		{
			Name:        "Stainless Steel Water Bottle",
			Price:       decimal.NewFromFloat(19.99),
			ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500",
			Description: "Insulated bottle that keeps drinks cold for 24 hours and hot for 12.",
			Category:    "Accessories",
			Stock:       150,
			IsActive:    true,
		},
		{
			Name:        "Smart Fitness Watch",
			Price:       decimal.NewFromFloat(149.99),
			ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500",
			Description: "Heart rate monitoring, GPS and 7-day battery life.",
			Category:    "Electronics",
			Stock:       75,
			IsActive:    true,
		},
		{
			Name:        "Leather Messenger Bag",
			Price:       decimal.NewFromFloat(89.99),
			ImageURL:    "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=500",
			Description: "Genuine leather messenger bag with multiple compartments.",
			Category:    "Accessories",
			Stock:       40,
			IsActive:    true,
		},
	}

	inserted, err := db.InsertProducts(context.Background(), products)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	for _, p := range inserted {
		log.Printf("Seeded product %s (%s)", p.Name, p.ID)
	}
	log.Printf("Seeded %d products", len(inserted))
}
