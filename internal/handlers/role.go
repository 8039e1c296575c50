package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/internal/models"
	"storefront/api/internal/service"
)

type roleView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toRoleView(r models.Role) roleView {
	return roleView{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type roleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (r roleRequest) input() service.RoleInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.RoleInput{Name: r.Name, Description: r.Description, IsActive: active}
}

func (h HandlerSet) CreateRole(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), req.input(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRoleView(role))
}

func (h HandlerSet) GetRole(c *gin.Context) {
	role, err := h.roleService.Get(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoleView(role))
}

func (h HandlerSet) ListRoles(c *gin.Context) {
	limit, offset := pageParams(c)
	roles, err := h.roleService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]roleView, 0, len(roles))
	for _, r := range roles {
		views = append(views, toRoleView(r))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h HandlerSet) UpdateRole(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), c.Param("roleId"), req.input(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoleView(role))
}

func (h HandlerSet) DeleteRole(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), c.Param("roleId"), identity.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role deleted"})
}

func (h HandlerSet) RestoreRole(c *gin.Context) {
	if err := h.roleService.Restore(c.Request.Context(), c.Param("roleId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role restored"})
}

type assignPermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds" binding:"required"`
}

func (h HandlerSet) AssignPermissionsToRole(c *gin.Context) {
	var req assignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.AssignPermissions(c.Request.Context(), c.Param("roleId"), req.PermissionIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoleView(role))
}

type assignRoleRequest struct {
	RoleID string `json:"roleId" binding:"required"`
}

func (h HandlerSet) AssignRoleToUser(c *gin.Context) {
	identity, ok := h.mustIdentity(c)
	if !ok {
		return
	}

	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.roleService.AssignToUser(c.Request.Context(), c.Param("userId"), req.RoleID, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}
