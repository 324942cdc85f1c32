package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
)

// ProductRepositoryPG implements domain.ProductRepository using PostgreSQL.
// The owner snapshot is stored as a jsonb document, mirroring the campaign
// creator embed.
type ProductRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repo.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepositoryPG {
	return &ProductRepositoryPG{pool: pool}
}

// Create inserts a new product listing.
func (r *ProductRepositoryPG) Create(ctx context.Context, p *domain.Product) error {
	owner, err := json.Marshal(p.Owner)
	if err != nil {
		return fmt.Errorf("encode owner: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO products (id, title, description, image, price, type, owner, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`, p.ID, p.Title, p.Description, p.Image, p.Price, string(p.Type), owner, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetByID returns one product.
func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, title, description, image, price, type, owner, created_at, updated_at
FROM products
WHERE id = $1;
`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns products matching the filter, newest first.
func (r *ProductRepositoryPG) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := strings.Builder{}
	query.WriteString(`
SELECT id, title, description, image, price, type, owner, created_at, updated_at
FROM products
`)
	var clauses []string
	var args []any
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		clauses = append(clauses, "type = $"+strconv.Itoa(len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, "price >= $"+strconv.Itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, "price <= $"+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query.WriteString("WHERE " + strings.Join(clauses, " AND ") + "\n")
	}
	query.WriteString("ORDER BY created_at DESC;")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the listing fields. The owner snapshot stays as captured
// at creation time.
func (r *ProductRepositoryPG) Update(ctx context.Context, p *domain.Product) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE products
SET title = $2, description = $3, image = $4, price = $5, type = $6, updated_at = $7
WHERE id = $1;
`, p.ID, p.Title, p.Description, p.Image, p.Price, string(p.Type), p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the listing.
func (r *ProductRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var productType string
	var owner []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.Price, &productType, &owner, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Type = domain.ProductType(productType)
	if err := json.Unmarshal(owner, &p.Owner); err != nil {
		return nil, fmt.Errorf("decode owner: %w", err)
	}
	return &p, nil
}

var _ domain.ProductRepository = (*ProductRepositoryPG)(nil)
