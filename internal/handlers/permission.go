package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/models"
	"storefront/api/internal/service"
)

type permissionView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Path        string    `json:"path"`
	Method      string    `json:"method"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toPermissionView(p models.Permission) permissionView {
	return permissionView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Path:        p.Path,
		Method:      p.Method,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type createPermissionRequest struct {
	Description string `json:"description" binding:"required"`
	Path        string `json:"path" binding:"required"`
	Method      string `json:"method" binding:"required"`
}

func (h HandlerSet) CreatePermission(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req createPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permission, err := h.permissionService.Create(c.Request.Context(), service.PermissionInput{
		Description: req.Description,
		Path:        req.Path,
		Method:      req.Method,
	}, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPermissionView(permission))
}

type updatePermissionRequest struct {
	Description string `json:"description"`
	Path        string `json:"path"`
	Method      string `json:"method"`
}

func (h HandlerSet) UpdatePermission(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req updatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permission, err := h.permissionService.Update(c.Request.Context(), c.Param("permissionId"), service.PermissionInput{
		Description: req.Description,
		Path:        req.Path,
		Method:      req.Method,
	}, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPermissionView(permission))
}

func (h HandlerSet) GetPermission(c *gin.Context) {
	permission, err := h.permissionService.Get(c.Request.Context(), c.Param("permissionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPermissionView(permission))
}

func (h HandlerSet) ListPermissions(c *gin.Context) {
	limit, offset := pageParams(c)
	permissions, err := h.permissionService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]permissionView, 0, len(permissions))
	for _, p := range permissions {
		views = append(views, toPermissionView(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h HandlerSet) DeletePermission(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	if err := h.permissionService.Delete(c.Request.Context(), c.Param("permissionId"), identity.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "permission deleted"})
}

type assignRolesRequest struct {
	RoleIDs []string `json:"roleIds" binding:"required"`
}

func (h HandlerSet) AssignRolesToPermission(c *gin.Context) {
	var req assignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permission, err := h.permissionService.AssignRoles(c.Request.Context(), c.Param("permissionId"), req.RoleIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPermissionView(permission))
}
