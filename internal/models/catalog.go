package models

import "time"

type Category struct {
	ID        string
	Name      string
	Slug      string
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Product struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Price       int64 // minor currency units
	Stock       int
	CategoryID  *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WishlistItem struct {
	ID        string
	UserID    string
	ProductID string
	CreatedAt time.Time
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID        string
	UserID    string
	Status    OrderStatus
	Total     int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	Items     []OrderItem
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
}
