package dataservice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"shop-catalog/internal/catalog"
	"shop-catalog/internal/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// productRules are the record rules every catalog product must satisfy
type productRules struct {
	ID    string   `validate:"required"`
	Name  string   `validate:"required"`
	Price *float64 `validate:"omitnil,gte=0"`
}

// ValidateProduct reports whether p is a usable catalog record:
// id and name are required and a price, when present, is non-negative.
func ValidateProduct(p catalog.Product) error {
	return validate.Struct(productRules{ID: p.ID, Name: p.Name, Price: p.Price})
}

// productRow is a catalog.products row as scanned, before validation
type productRow struct {
	ID       string
	Name     string
	Brand    string
	Category string
	Price    sql.NullFloat64
	Images   pq.StringArray
	InStock  bool
}

// toProduct converts and validates the row; unpriced rows keep a nil price
func (r productRow) toProduct() (catalog.Product, error) {
	p := catalog.Product{
		ID:       r.ID,
		Name:     r.Name,
		Brand:    r.Brand,
		Category: r.Category,
		Images:   []string(r.Images),
		InStock:  r.InStock,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if r.Price.Valid {
		price := r.Price.Float64
		p.Price = &price
	}
	if err := ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// Postgres reads catalog records from the catalog.products table
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a data service over db
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// ListProducts returns every valid product in display order. Invalid rows are skipped.
func (s *Postgres) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	query := `
		SELECT id, name, brand, category, price::float8,
		       COALESCE(images, '{}'::text[]) AS images, in_stock
		FROM catalog.products
		ORDER BY position, created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListProducts query: %w", err)
	}
	defer rows.Close()

	products := []catalog.Product{}
	for rows.Next() {
		var r productRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Brand, &r.Category, &r.Price, &r.Images, &r.InStock); err != nil {
			return nil, fmt.Errorf("ListProducts scan: %w", err)
		}
		p, err := r.toProduct()
		if err != nil {
			logger.Warnf("ListProducts: skipping product %q: %v", r.ID, err)
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListBrands returns the distinct non-empty brands, sorted
func (s *Postgres) ListBrands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

// ListCategories returns the distinct non-empty categories, sorted
func (s *Postgres) ListCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

// distinct is only called with fixed column names
func (s *Postgres) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM catalog.products WHERE %[1]s <> '' ORDER BY %[1]s", column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("list %s scan: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Ping checks the database connection
func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
