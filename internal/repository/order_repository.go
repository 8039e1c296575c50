package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CheckoutFromCart converts the user's cart into a pending order:
// price the items, decrement stock, write order rows, clear the cart.
// One transaction so a stock conflict aborts the whole checkout.
func (r *OrderRepository) CheckoutFromCart(ctx context.Context, userID string) (models.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT c.product_id, c.quantity, p.name, p.price, p.stock
		FROM cart_items c
		JOIN products p ON p.id = c.product_id AND p.deleted_at IS NULL AND p.is_active
		WHERE c.user_id = $1
		FOR UPDATE OF p
	`, userID)
	if err != nil {
		return models.Order{}, err
	}

	type line struct {
		productID string
		quantity  int
		name      string
		price     int64
		stock     int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity, &l.name, &l.price, &l.stock); err != nil {
			rows.Close()
			return models.Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Order{}, err
	}
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		ID:     ids.New(),
		UserID: userID,
		Status: models.OrderStatusPending,
	}

	for _, l := range lines {
		if l.stock < l.quantity {
			return models.Order{}, fmt.Errorf("%w: product %s", ErrInsufficientStock, l.productID)
		}
		order.Total += l.price * int64(l.quantity)
		order.Items = append(order.Items, models.OrderItem{
			ID:        ids.New(),
			OrderID:   order.ID,
			ProductID: l.productID,
			Name:      l.name,
			UnitPrice: l.price,
			Quantity:  l.quantity,
		})
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, order.ID, order.UserID, order.Status, order.Total); err != nil {
		return models.Order{}, err
	}

	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, item.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		batch.Queue(`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1`,
			item.ProductID, item.Quantity)
	}
	batch.Queue(`DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return models.Order{}, fmt.Errorf("write order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit checkout tx: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, userID string, orderID string) (models.Order, error) {
	const query = `
		SELECT id, user_id, status, total, created_at, updated_at, deleted_at
		FROM orders
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var order models.Order
	if err := r.pool.QueryRow(ctx, query, orderID, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, unit_price, quantity
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return models.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return models.Order{}, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.Order, error) {
	const query = `
		SELECT id, user_id, status, total, created_at, updated_at, deleted_at
		FROM orders
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.Total,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.DeletedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Cancel marks a pending order cancelled and restores product stock.
func (r *OrderRepository) Cancel(ctx context.Context, userID string, orderID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $4 AND deleted_at IS NULL
	`, orderID, userID, models.OrderStatusCancelled, models.OrderStatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products p
		SET stock = p.stock + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
	`, orderID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
