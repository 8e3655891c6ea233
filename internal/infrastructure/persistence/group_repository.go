package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/flockbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGroupRepository implements accounting.GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Group, error) {
	var model models.AccountGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accounting.ErrGroupNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName matches case-insensitively.
func (r *GormGroupRepository) FindByName(ctx context.Context, name string) (*accounting.Group, error) {
	var model models.AccountGroupModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accounting.ErrGroupNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormGroupRepository) FindAll(ctx context.Context) ([]*accounting.Group, error) {
	var rows []models.AccountGroupModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	groups := make([]*accounting.Group, len(rows))
	for i := range rows {
		groups[i] = rows[i].ToDomain()
	}
	return groups, nil
}

// Save inserts a new group or updates an existing one under optimistic
// locking.
func (r *GormGroupRepository) Save(ctx context.Context, group *accounting.Group) error {
	model := models.AccountGroupModelFromDomain(group)
	if group.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		group.MarkPersisted()
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.AccountGroupModel{}).
		Where("id = ? AND version = ?", group.ID, group.Version-1).
		Updates(map[string]any{
			"name":                 model.Name,
			"type":                 model.Type,
			"parent_id":            model.ParentID,
			"active":               model.Active,
			"includes_all_vendors": model.IncludesAllVendors,
			"updated_at":           model.UpdatedAt,
			"version":              model.Version,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	group.MarkPersisted()
	return nil
}

func (r *GormGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountGroupModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return accounting.ErrGroupNotFound
	}
	return nil
}

// isUniqueViolation recognizes duplicate-key errors from Postgres (23505)
// and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
