package models

import "time"

// Permission is one synchronized route: name is the canonical
// "<METHOD> <path>" key, description a human label.
type Permission struct {
	ID          string
	Name        string
	Description string
	Path        string
	Method      string
	CreatedByID *string
	UpdatedByID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type Role struct {
	ID          string
	Name        string
	Slug        string
	Description string
	IsActive    bool
	CreatedByID *string
	UpdatedByID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// PermissionTriple is the cached projection of a permission used by
// the role resolver.
type PermissionTriple struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Method string `json:"method"`
}
