// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/infrastructure/storage/postgres"
	"pharmapos/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@pharmapos.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	_, err = pool.Pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'admin', true, $5, $5)`,
		id.New(), "Administrator", adminEmail, string(hash), now,
	)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	now := time.Now().UTC()

	categoryID := id.New()
	_, err := pool.Pool.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at, updated_at)
		 VALUES ($1, 'Analgesics', 'Pain relief medicines', $2, $2)
		 ON CONFLICT DO NOTHING`,
		categoryID, now,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	shelfID := id.New()
	_, err = pool.Pool.Exec(ctx,
		`INSERT INTO shelves (id, name, location, created_at, updated_at)
		 VALUES ($1, 'A1', 'Front counter, top row', $2, $2)
		 ON CONFLICT DO NOTHING`,
		shelfID, now,
	)
	if err != nil {
		return fmt.Errorf("insert shelf: %w", err)
	}

	supplierID := id.New()
	_, err = pool.Pool.Exec(ctx,
		`INSERT INTO suppliers (id, name, contact_person, phone, email, address, created_at, updated_at)
		 VALUES ($1, 'MediSupply Ltd', 'R. Karim', '+880-1700-000000', 'orders@medisupply.example', 'Dhaka', $2, $2)
		 ON CONFLICT DO NOTHING`,
		supplierID, now,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}

	products := []struct {
		name          string
		stock         int
		sellingPrice  string
		purchasePrice string
	}{
		{"Paracetamol 500mg", 200, "2.50", "1.80"},
		{"Ibuprofen 400mg", 120, "4.00", "2.90"},
		{"ORS Sachet", 300, "1.20", "0.75"},
	}
	for _, p := range products {
		selling := types.MustMoney(p.sellingPrice)
		purchase := types.MustMoney(p.purchasePrice)
		_, err = pool.Pool.Exec(ctx,
			`INSERT INTO products (id, name, stock, selling_price, purchase_price, category_id, shelf_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			 ON CONFLICT DO NOTHING`,
			id.New(), p.name, p.stock, selling, purchase, categoryID, shelfID, now,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.name, err)
		}
	}

	log.Info("demo data seeded")
	return nil
}
