package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"storefront/api/internal/ids"
	"storefront/api/internal/models"
	"storefront/api/internal/rbac"
	"storefront/api/internal/repository"
)

var (
	ErrAdminRoleImmutable = errors.New("admin role cannot be modified")
	ErrSelfRoleChange     = errors.New("cannot change own role")
)

type RoleService struct {
	roles *repository.RoleRepository
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewRoleService(
	roles *repository.RoleRepository,
	users *repository.UserRepository,
	log zerolog.Logger,
) *RoleService {
	return &RoleService{roles: roles, users: users, log: log}
}

type RoleInput struct {
	Name        string
	Description string
	IsActive    bool
}

func slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func (s *RoleService) Create(ctx context.Context, input RoleInput, createdByID string) (models.Role, error) {
	role := models.Role{
		ID:          ids.New(),
		Name:        strings.TrimSpace(input.Name),
		Slug:        slugify(input.Name),
		Description: input.Description,
		IsActive:    input.IsActive,
		CreatedByID: &createdByID,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, roleID string) (models.Role, error) {
	return s.roles.GetByID(ctx, roleID)
}

func (s *RoleService) List(ctx context.Context, limit int, offset int) ([]models.Role, error) {
	return s.roles.List(ctx, limit, offset)
}

func (s *RoleService) Update(ctx context.Context, roleID string, input RoleInput, updatedByID string) (models.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return models.Role{}, err
	}
	if role.Name == rbac.RoleAdmin {
		return models.Role{}, ErrAdminRoleImmutable
	}

	role.Name = strings.TrimSpace(input.Name)
	role.Slug = slugify(input.Name)
	role.Description = input.Description
	role.IsActive = input.IsActive
	role.UpdatedByID = &updatedByID

	if err := s.roles.Update(ctx, role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, roleID string, deletedByID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.Name == rbac.RoleAdmin {
		return ErrAdminRoleImmutable
	}

	return s.roles.SoftDelete(ctx, roleID, deletedByID)
}

func (s *RoleService) Restore(ctx context.Context, roleID string) error {
	return s.roles.Restore(ctx, roleID)
}

// AssignPermissions replaces the role's entire permission set. The
// resolver cache is deliberately not flushed here; readers see the
// new grants within the cache TTL.
func (s *RoleService) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) (models.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return models.Role{}, err
	}

	if err := s.roles.AssignPermissions(ctx, roleID, permissionIDs); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

// AssignToUser replaces the user's single role. Nobody may grant
// ADMIN this way, and admins cannot change their own role.
func (s *RoleService) AssignToUser(ctx context.Context, userID string, roleID string, actorID string) (models.User, error) {
	if userID == actorID {
		return models.User{}, ErrSelfRoleChange
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return models.User{}, err
	}
	if role.Name == rbac.RoleAdmin {
		return models.User{}, ErrAdminRoleImmutable
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return models.User{}, err
	}

	if err := s.roles.SetUserRole(ctx, userID, roleID); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}
