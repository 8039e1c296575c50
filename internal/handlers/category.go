package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
)

type categoryView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCategoryView(cat models.Category) categoryView {
	return categoryView{
		ID:        cat.ID,
		Name:      cat.Name,
		Slug:      cat.Slug,
		ParentID:  cat.ParentID,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

type createCategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{
		ID:       ids.New(),
		Name:     strings.TrimSpace(req.Name),
		Slug:     slugify(req.Name),
		ParentID: req.ParentID,
	}

	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryView(category))
}

type updateCategoryRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
		category.Slug = slugify(*req.Name)
	}
	if req.ParentID != nil {
		category.ParentID = req.ParentID
	}

	if err := h.categories.Update(c.Request.Context(), category); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryView(category))
}

func (h HandlerSet) GetCategory(c *gin.Context) {
	category, err := h.categories.GetByID(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryView(category))
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	limit, offset := pageParams(c)
	categories, err := h.categories.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, cat := range categories {
		views = append(views, toCategoryView(cat))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categories.SoftDelete(c.Request.Context(), c.Param("categoryId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
