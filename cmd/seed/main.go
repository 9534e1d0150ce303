package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"

	"shop-catalog/internal/catalog"
	"shop-catalog/internal/config"
	"shop-catalog/internal/dataservice"
	"shop-catalog/internal/db"
	"shop-catalog/internal/logger"
)

func main() {
	file := flag.String("file", "products.json", "JSON array of products to load")
	reset := flag.Bool("reset", false, "delete existing products first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init("info")

	products, err := readProducts(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	ctx := context.Background()
	sqlDB, err := db.Init(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB); err != nil {
		log.Fatal(err)
	}
	if err := seed(ctx, sqlDB, products, *reset); err != nil {
		log.Fatal(err)
	}
	logger.Infof("seeded %d products", len(products))
}

func readProducts(path string) ([]catalog.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	for i, p := range products {
		if err := dataservice.ValidateProduct(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}
	return products, nil
}

func seed(ctx context.Context, sqlDB *sql.DB, products []catalog.Product, reset bool) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if reset {
		if _, err := tx.ExecContext(ctx, "DELETE FROM catalog.products"); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	query := `
		INSERT INTO catalog.products (id, name, brand, category, price, images, in_stock, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			images = EXCLUDED.images,
			in_stock = EXCLUDED.in_stock,
			position = EXCLUDED.position
	`
	for i, p := range products {
		var price sql.NullFloat64
		if p.Price != nil {
			price = sql.NullFloat64{Float64: *p.Price, Valid: true}
		}
		images := p.Images
		if images == nil {
			images = []string{}
		}
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.Name, p.Brand, p.Category, price, pq.Array(images), p.InStock, i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
