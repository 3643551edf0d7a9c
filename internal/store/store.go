package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by its store key
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetActiveProducts retrieves all active products for the browsing surface
func (s *Store) GetActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE is_active ORDER BY category, name")
	return products, err
}

// GetProductsByCategory retrieves active products matching a category,
// case-insensitively
func (s *Store) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE category ILIKE $1 AND is_active ORDER BY name",
		"%"+category+"%")
	return products, err
}

// InsertProducts inserts a batch of products, assigning fresh store keys.
// Returns the inserted records.
func (s *Store) InsertProducts(ctx context.Context, products []models.Product) ([]models.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inserted := make([]models.Product, 0, len(products))
	for _, p := range products {
		p.ID = uuid.New().String()
		err := tx.GetContext(ctx, &p, `
			INSERT INTO products (id, name, price, image_url, description, category, stock, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *`,
			p.ID, p.Name, p.Price, p.ImageURL, p.Description, p.Category, p.Stock, p.IsActive)
		if err != nil {
			return nil, fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
		inserted = append(inserted, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// DeleteAllProducts removes every product. Used by the import endpoint's
// clear option.
func (s *Store) DeleteAllProducts(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products")
	return err
}
