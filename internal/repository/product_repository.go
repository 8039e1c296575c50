package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

const productColumns = `
	id, name, slug, description, price, stock, category_id, is_active,
	created_at, updated_at, deleted_at
`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p models.Product) error {
	const query = `
		INSERT INTO products (id, name, slug, description, price, stock, category_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.CategoryID, p.IsActive,
	)
	if isUniqueViolation(err) {
		return ErrProductExists
	}
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *ProductRepository) List(ctx context.Context, limit int, offset int) ([]models.Product, error) {
	const query = `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL AND is_active
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p models.Product) error {
	const query = `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, stock = $6, category_id = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.CategoryID, p.IsActive,
	)
	if isUniqueViolation(err) {
		return ErrProductExists
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE products SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
