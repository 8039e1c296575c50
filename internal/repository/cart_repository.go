package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/models"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Add inserts a cart item, or bumps the quantity when the product is
// already in the user's cart.
func (r *CartRepository) Add(ctx context.Context, item models.CartItem) error {
	const query = `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, item.ID, item.UserID, item.ProductID, item.Quantity)
	return err
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID string, itemID string, quantity int) error {
	const query = `
		UPDATE cart_items SET quantity = $3, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, userID, itemID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) Remove(ctx context.Context, userID string, itemID string) error {
	const query = `DELETE FROM cart_items WHERE id = $2 AND user_id = $1`
	cmd, err := r.pool.Exec(ctx, query, userID, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	const query = `DELETE FROM cart_items WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.CartItem, error) {
	const query = `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCartItemNotFound
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
