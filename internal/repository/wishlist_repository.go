package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/models"
)

type WishlistRepository struct {
	pool *pgxpool.Pool
}

func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Toggle adds the product to the user's wishlist, or removes it when
// already present. Returns true when the product ends up wishlisted.
func (r *WishlistRepository) Toggle(ctx context.Context, item models.WishlistItem) (bool, error) {
	const deleteQuery = `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`
	cmd, err := r.pool.Exec(ctx, deleteQuery, item.UserID, item.ProductID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return false, nil
	}

	const insertQuery = `
		INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := r.pool.Exec(ctx, insertQuery, item.ID, item.UserID, item.ProductID); err != nil {
		return false, err
	}
	return true, nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	const query = `
		SELECT id, user_id, product_id, created_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
