package repository

import (
	"context"
	"errors"

	"farmiq/internal/cache"
	"farmiq/internal/models"

	"gorm.io/gorm"
)

// SchemeRepository defines persistence operations for government schemes.
type SchemeRepository interface {
	Create(ctx context.Context, scheme *models.Scheme) error
	GetByID(ctx context.Context, id uint) (*models.Scheme, error)
	List(ctx context.Context) ([]models.Scheme, error)
	Update(ctx context.Context, scheme *models.Scheme) error
	Delete(ctx context.Context, id uint) error
}

type schemeRepository struct {
	db *gorm.DB
}

// NewSchemeRepository returns a new SchemeRepository implementation.
func NewSchemeRepository(db *gorm.DB) SchemeRepository {
	return &schemeRepository{db: db}
}

func (r *schemeRepository) Create(ctx context.Context, scheme *models.Scheme) error {
	if err := r.db.WithContext(ctx).Create(scheme).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSchemes(ctx)
	return nil
}

func (r *schemeRepository) GetByID(ctx context.Context, id uint) (*models.Scheme, error) {
	var scheme models.Scheme
	if err := r.db.WithContext(ctx).First(&scheme, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Scheme", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &scheme, nil
}

// List returns all schemes through the cache: the eligibility filter runs
// in-process over the full set, so one cached list serves every query shape.
func (r *schemeRepository) List(ctx context.Context) ([]models.Scheme, error) {
	var schemes []models.Scheme
	err := cache.Aside(ctx, cache.SchemeListKey, &schemes, cache.SchemeListTTL, func() error {
		return r.db.WithContext(ctx).Order("id ASC").Find(&schemes).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return schemes, nil
}

func (r *schemeRepository) Update(ctx context.Context, scheme *models.Scheme) error {
	res := r.db.WithContext(ctx).Model(&models.Scheme{}).Where("id = ?", scheme.ID).Updates(scheme)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Scheme", scheme.ID)
	}
	cache.InvalidateSchemes(ctx)
	return nil
}

func (r *schemeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Scheme{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Scheme", id)
	}
	cache.InvalidateSchemes(ctx)
	return nil
}
