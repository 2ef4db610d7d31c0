package activity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/youssefadel/eduplatform-backend/pkg/db/models"
	"github.com/youssefadel/eduplatform-backend/pkg/pagination"
)

// Repository exposes persistence for audit entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.Activity) error
	ListForUser(ctx context.Context, params listActivityParams) ([]models.Activity, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an activity repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listActivityParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, entry *models.Activity) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) ListForUser(ctx context.Context, params listActivityParams) ([]models.Activity, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Activity{}).Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var entries []models.Activity
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		next := entries[normalized]
		entries = entries[:normalized]
		return entries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return entries, nil, nil
}
