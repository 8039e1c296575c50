package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
)

type cartItemView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCartItemView(item models.CartItem) cartItemView {
	return cartItemView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (h HandlerSet) AddCartItem(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.products.GetByID(c.Request.Context(), req.ProductID); err != nil {
		h.respondError(c, err)
		return
	}

	item := models.CartItem{
		ID:        ids.New(),
		UserID:    identity.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := h.carts.Add(c.Request.Context(), item); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartItemView(item))
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h HandlerSet) UpdateCartItem(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.carts.UpdateQuantity(c.Request.Context(), identity.UserID, c.Param("cartItemId"), req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart item updated"})
}

func (h HandlerSet) RemoveCartItem(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	if err := h.carts.Remove(c.Request.Context(), identity.UserID, c.Param("cartItemId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
}

func (h HandlerSet) ClearCart(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	if err := h.carts.Clear(c.Request.Context(), identity.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (h HandlerSet) ListCart(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	limit, offset := pageParams(c)
	items, err := h.carts.ListByUser(c.Request.Context(), identity.UserID, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]cartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toCartItemView(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}
