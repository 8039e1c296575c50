package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
	"storefront/api/internal/rbac"
	"storefront/api/internal/repository"
)

type PermissionService struct {
	permissions *repository.PermissionRepository
	log         zerolog.Logger
}

func NewPermissionService(permissions *repository.PermissionRepository, log zerolog.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, log: log}
}

type PermissionInput struct {
	Description string
	Path        string
	Method      string
}

func (s *PermissionService) Create(ctx context.Context, input PermissionInput, createdByID string) (models.Permission, error) {
	method := strings.ToUpper(strings.TrimSpace(input.Method))
	permission := models.Permission{
		ID:          ids.New(),
		Name:        rbac.RouteKey(method, input.Path),
		Description: input.Description,
		Path:        strings.TrimSpace(input.Path),
		Method:      method,
		CreatedByID: &createdByID,
	}

	// (path, method) must stay unique among non-deleted rows.
	exists, err := s.permissions.ExistsByRoute(ctx, permission.Path, permission.Method, permission.ID)
	if err != nil {
		return models.Permission{}, err
	}
	if exists {
		return models.Permission{}, repository.ErrPermissionExists
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		return models.Permission{}, err
	}
	return permission, nil
}

func (s *PermissionService) Get(ctx context.Context, id string) (models.Permission, error) {
	return s.permissions.GetByID(ctx, id)
}

func (s *PermissionService) List(ctx context.Context, limit int, offset int) ([]models.Permission, error) {
	return s.permissions.List(ctx, limit, offset)
}

func (s *PermissionService) Update(ctx context.Context, id string, input PermissionInput, updatedByID string) (models.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		return models.Permission{}, err
	}

	if input.Path != "" {
		permission.Path = strings.TrimSpace(input.Path)
	}
	if input.Method != "" {
		permission.Method = strings.ToUpper(strings.TrimSpace(input.Method))
	}
	if input.Description != "" {
		permission.Description = input.Description
	}
	permission.Name = rbac.RouteKey(permission.Method, permission.Path)
	permission.UpdatedByID = &updatedByID

	exists, err := s.permissions.ExistsByRoute(ctx, permission.Path, permission.Method, permission.ID)
	if err != nil {
		return models.Permission{}, err
	}
	if exists {
		return models.Permission{}, repository.ErrPermissionExists
	}

	if err := s.permissions.Update(ctx, permission); err != nil {
		return models.Permission{}, err
	}
	return permission, nil
}

func (s *PermissionService) Delete(ctx context.Context, id string, deletedByID string) error {
	return s.permissions.SoftDelete(ctx, id, deletedByID)
}

// AssignRoles replaces the set of roles granted this permission.
func (s *PermissionService) AssignRoles(ctx context.Context, permissionID string, roleIDs []string) (models.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		return models.Permission{}, err
	}

	if err := s.permissions.AssignRoles(ctx, permissionID, roleIDs); err != nil {
		return models.Permission{}, err
	}
	return permission, nil
}
