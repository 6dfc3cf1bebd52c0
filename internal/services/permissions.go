package services

import (
	"context"

	"gorm.io/gorm"

	"backoffice/internal/models"
)

// PermissionService is the permission catalog.
type PermissionService struct {
	*BaseServiceImpl[models.Permission]
}

// NewPermissionService creates a new permission service.
func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{
		BaseServiceImpl: NewBaseService(db, models.Permission{}),
	}
}

// Create validates the type/shape invariant before persisting.
func (s *PermissionService) Create(ctx context.Context, perm *models.Permission) error {
	if err := perm.ValidateShape(); err != nil {
		return err
	}
	return s.BaseServiceImpl.Create(ctx, perm)
}
