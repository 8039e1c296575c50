package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/models"
)

type orderItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type orderView struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Total     int64           `json:"total"`
	Items     []orderItemView `json:"items,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toOrderView(o models.Order) orderView {
	view := orderView{
		ID:        o.ID,
		Status:    string(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, orderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return view
}

func (h HandlerSet) Checkout(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	order, err := h.orders.CheckoutFromCart(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderView(order))
}

func (h HandlerSet) ListOrders(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	limit, offset := pageParams(c)
	orders, err := h.orders.ListByUser(c.Request.Context(), identity.UserID, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h HandlerSet) GetOrder(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), identity.UserID, c.Param("orderId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(order))
}

func (h HandlerSet) CancelOrder(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	if err := h.orders.Cancel(c.Request.Context(), identity.UserID, c.Param("orderId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}
