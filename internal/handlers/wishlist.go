package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
)

type wishlistItemView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) ToggleWishlist(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	productID := c.Param("productId")
	if _, err := h.products.GetByID(c.Request.Context(), productID); err != nil {
		h.respondError(c, err)
		return
	}

	wishlisted, err := h.wishlists.Toggle(c.Request.Context(), models.WishlistItem{
		ID:        ids.New(),
		UserID:    identity.UserID,
		ProductID: productID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "wishlisted": wishlisted})
}

func (h HandlerSet) ListWishlist(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	items, err := h.wishlists.ListByUser(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]wishlistItemView, 0, len(items))
	for _, item := range items {
		views = append(views, wishlistItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			CreatedAt: item.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}
