// Package seed loads demo accounts, catalog and content into Postgres.
// Every statement is idempotent so seeding can be re-run safely.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type Account struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      entity.Role
}

var DefaultAccounts = []Account{
	{Email: "admin@storefront.local", Password: "admin123", FirstName: "Store", LastName: "Admin", Role: entity.RoleAdmin},
	{Email: "customer@storefront.local", Password: "customer123", FirstName: "Jane", LastName: "Doe", Role: entity.RoleCustomer},
}

type category struct {
	Name        string
	Description string
	Products    []product
}

type product struct {
	Name     string
	SKU      string
	Price    string
	Stock    int
	Featured bool
}

var catalog = []category{
	{Name: "Electronics", Description: "Phones, laptops and accessories", Products: []product{
		{Name: "Wireless Headphones", SKU: "EL-HP-001", Price: "129.99", Stock: 50, Featured: true},
		{Name: "USB-C Charger 65W", SKU: "EL-CH-002", Price: "39.90", Stock: 120},
	}},
	{Name: "Books", Description: "Fiction and non-fiction", Products: []product{
		{Name: "The Go Programming Language", SKU: "BK-GO-001", Price: "44.50", Stock: 30, Featured: true},
	}},
	{Name: "Home & Kitchen", Description: "Everything for the home", Products: []product{
		{Name: "Pour-Over Coffee Set", SKU: "HK-CF-001", Price: "59.00", Stock: 8},
	}},
}

type Seeder struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

func New(db *sql.DB, logger *logrus.Logger) *Seeder {
	return &Seeder{DB: db, Logger: logger}
}

func (s *Seeder) All(ctx context.Context) error {
	if err := s.Users(ctx); err != nil {
		return err
	}
	if err := s.Catalog(ctx); err != nil {
		return err
	}
	return s.Content(ctx)
}

// Users upserts the default accounts and makes sure each has a cart.
func (s *Seeder) Users(ctx context.Context) error {
	for _, a := range DefaultAccounts {
		hash, err := helpers.HashPassword(a.Password)
		if err != nil {
			return err
		}
		var id int64
		err = s.DB.QueryRowContext(ctx, `
			INSERT INTO users (email, password, first_name, last_name, role)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, updated_at = now()
			RETURNING id`,
			a.Email, hash, a.FirstName, a.LastName, string(a.Role),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.Email, err)
		}
		if _, err := s.DB.ExecContext(ctx,
			`INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id); err != nil {
			return fmt.Errorf("seed cart for %s: %w", a.Email, err)
		}
		s.Logger.WithFields(logrus.Fields{"id": id, "email": a.Email, "role": a.Role}).Info("seeded user")
	}
	return nil
}

// Catalog upserts the demo categories and inserts their products once.
func (s *Seeder) Catalog(ctx context.Context) error {
	for _, c := range catalog {
		var id int64
		err := s.DB.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = now()
			RETURNING id`,
			c.Name, helpers.Slugify(c.Name), c.Description,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		for _, p := range c.Products {
			_, err := s.DB.ExecContext(ctx, `
				INSERT INTO products (name, slug, price, stock, sku, category_id, featured)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (sku) DO NOTHING`,
				p.Name, helpers.Slugify(p.Name), decimal.RequireFromString(p.Price), p.Stock, p.SKU, id, p.Featured,
			)
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.SKU, err)
			}
		}
		s.Logger.WithFields(logrus.Fields{"category": c.Name, "products": len(c.Products)}).Info("seeded category")
	}
	return nil
}

// Content adds an active about page when none is active and a welcome post
// authored by the admin account.
func (s *Seeder) Content(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO about_pages (title, content, mission_statement, vision_statement, active)
		SELECT $1, $2, $3, $4, TRUE
		WHERE NOT EXISTS (SELECT 1 FROM about_pages WHERE active)`,
		"About Us",
		"We are a small team selling things we love.",
		"Make quality products easy to find.",
		"A storefront customers return to.",
	); err != nil {
		return fmt.Errorf("seed about page: %w", err)
	}

	var authorID int64
	if err := s.DB.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, DefaultAccounts[0].Email).Scan(&authorID); err != nil {
		return fmt.Errorf("seed blog author: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO blog_posts (title, slug, content, excerpt, author_id, tags, published, published_at)
		VALUES ($1, $2, $3, $4, $5, string_to_array($6, ','), TRUE, now())
		ON CONFLICT (slug) DO NOTHING`,
		"Welcome to our store", "welcome-to-our-store",
		"Our store is open. Take a look around the catalog.",
		"Our store is open.",
		authorID, "news,launch",
	); err != nil {
		return fmt.Errorf("seed blog post: %w", err)
	}
	s.Logger.Info("seeded content")
	return nil
}
