package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"backoffice/internal/models"
)

// UserService is the credential store: BaseService CRUD plus the email and
// statistics lookups the auth and admin surfaces need.
type UserService struct {
	*BaseServiceImpl[models.User]
	db *gorm.DB
}

// NewUserService creates a new user service.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		BaseServiceImpl: NewBaseService(db, models.User{}),
		db:              db,
	}
}

// FindByEmail fetches a non-deleted user by email, case-insensitive.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.FindOne(ctx, map[string]interface{}{"email": strings.ToLower(strings.TrimSpace(email))})
}

// CountActive counts non-deleted users with the active flag set.
func (s *UserService) CountActive(ctx context.Context) (int64, error) {
	return s.Count(ctx, map[string]interface{}{"active": true})
}

// CountCreatedSince counts non-deleted accounts created at or after the
// given instant.
func (s *UserService) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("deleted_at IS NULL").
		Where("created_at >= ?", since).
		Count(&total).Error
	return total, err
}

// FindRecent returns the newest accounts, for the admin dashboard.
func (s *UserService) FindRecent(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
