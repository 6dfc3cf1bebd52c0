package services

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm"

	"backoffice/internal/events"
)

// BaseService is the generic repository contract shared by every entity.
// Default reads exclude soft-deleted rows; Restore brings a row back into
// default visibility with its other fields unchanged.
type BaseService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id int64) (*T, error)
	GetAny(ctx context.Context, id int64) (*T, error)
	FindOne(ctx context.Context, filters map[string]interface{}) (*T, error)
	List(ctx context.Context, page, limit int, filters map[string]interface{}, orderBy string) ([]T, int64, error)
	ListDeleted(ctx context.Context, page, limit int) ([]T, int64, error)
	Update(ctx context.Context, id int64, entity *T) error
	Save(ctx context.Context, entity *T) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Count(ctx context.Context, filters map[string]interface{}) (int64, error)
}

// BaseServiceImpl implements BaseService on gorm.
type BaseServiceImpl[T any] struct {
	db        *gorm.DB
	modelType T
}

// NewBaseService creates a new base service for the given model.
func NewBaseService[T any](db *gorm.DB, modelType T) *BaseServiceImpl[T] {
	return &BaseServiceImpl[T]{db: db, modelType: modelType}
}

// GormTableName resolves the table name for event topics.
func GormTableName(db *gorm.DB, v any) string {
	structName := reflect.TypeOf(v).Name()
	return db.NamingStrategy.TableName(structName)
}

func (s *BaseServiceImpl[T]) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("deleted_at IS NULL")
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return err
	}
	events.Emit(fmt.Sprintf("%s.created", GormTableName(s.db, s.modelType)), entity)
	return nil
}

func (s *BaseServiceImpl[T]) Get(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := s.scoped(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetAny fetches a row regardless of soft-delete state.
func (s *BaseServiceImpl[T]) GetAny(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *BaseServiceImpl[T]) FindOne(ctx context.Context, filters map[string]interface{}) (*T, error) {
	var entity T
	query := s.scoped(ctx)
	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}
	if err := query.First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *BaseServiceImpl[T]) List(ctx context.Context, page, limit int, filters map[string]interface{}, orderBy string) ([]T, int64, error) {
	var entities []T
	var total int64

	query := s.db.WithContext(ctx).Model(s.modelType).Where("deleted_at IS NULL")
	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// ListDeleted returns only soft-deleted rows, most recently deleted first.
func (s *BaseServiceImpl[T]) ListDeleted(ctx context.Context, page, limit int) ([]T, int64, error) {
	var entities []T
	var total int64

	query := s.db.WithContext(ctx).Model(s.modelType).Where("deleted_at IS NOT NULL")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("deleted_at DESC")
	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (s *BaseServiceImpl[T]) Update(ctx context.Context, id int64, entity *T) error {
	result := s.db.WithContext(ctx).Model(entity).
		Where("id = ? AND deleted_at IS NULL", id).
		Omit("id", "created_at").
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := s.db.WithContext(ctx).First(entity, "id = ?", id).Error; err != nil {
		return err
	}
	events.Emit(fmt.Sprintf("%s.updated", GormTableName(s.db, s.modelType)), entity)
	return nil
}

// Save writes the full entity, running model hooks.
func (s *BaseServiceImpl[T]) Save(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		return err
	}
	events.Emit(fmt.Sprintf("%s.updated", GormTableName(s.db, s.modelType)), entity)
	return nil
}

func (s *BaseServiceImpl[T]) SoftDelete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Model(&s.modelType).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	events.Emit(fmt.Sprintf("%s.deleted", GormTableName(s.db, s.modelType)), id)
	return nil
}

func (s *BaseServiceImpl[T]) Restore(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Model(&s.modelType).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	events.Emit(fmt.Sprintf("%s.restored", GormTableName(s.db, s.modelType)), id)
	return nil
}

func (s *BaseServiceImpl[T]) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(s.modelType).Where("deleted_at IS NULL")
	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
