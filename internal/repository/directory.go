package repository

import (
	"context"
	"errors"

	"farmiq/internal/models"

	"gorm.io/gorm"
)

// DirectoryRepository covers the static lookup tables: soil-testing labs,
// agricultural experts and the crop guide.
type DirectoryRepository interface {
	ListLabs(ctx context.Context, state, district string) ([]models.Lab, error)
	CreateLab(ctx context.Context, lab *models.Lab) error
	UpdateLab(ctx context.Context, lab *models.Lab) error
	DeleteLab(ctx context.Context, id uint) error

	ListExperts(ctx context.Context, specialization string) ([]models.Expert, error)
	CreateExpert(ctx context.Context, expert *models.Expert) error
	UpdateExpert(ctx context.Context, expert *models.Expert) error
	DeleteExpert(ctx context.Context, id uint) error

	ListCrops(ctx context.Context) ([]models.Crop, error)
	GetCropByName(ctx context.Context, name string) (*models.Crop, error)
	CreateCrop(ctx context.Context, crop *models.Crop) error
	UpdateCrop(ctx context.Context, crop *models.Crop) error
	DeleteCrop(ctx context.Context, id uint) error
}

type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository returns a new DirectoryRepository implementation.
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) ListLabs(ctx context.Context, state, district string) ([]models.Lab, error) {
	var labs []models.Lab
	q := r.db.WithContext(ctx).Order("name ASC")
	if state != "" {
		q = q.Where("LOWER(state) = LOWER(?)", state)
	}
	if district != "" {
		q = q.Where("LOWER(district) = LOWER(?)", district)
	}
	if err := q.Find(&labs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return labs, nil
}

func (r *directoryRepository) CreateLab(ctx context.Context, lab *models.Lab) error {
	if err := r.db.WithContext(ctx).Create(lab).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *directoryRepository) UpdateLab(ctx context.Context, lab *models.Lab) error {
	res := r.db.WithContext(ctx).Model(&models.Lab{}).Where("id = ?", lab.ID).Updates(lab)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Lab", lab.ID)
	}
	return nil
}

func (r *directoryRepository) DeleteLab(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Lab{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Lab", id)
	}
	return nil
}

func (r *directoryRepository) ListExperts(ctx context.Context, specialization string) ([]models.Expert, error) {
	var experts []models.Expert
	q := r.db.WithContext(ctx).Order("name ASC")
	if specialization != "" {
		q = q.Where("LOWER(specialization) = LOWER(?)", specialization)
	}
	if err := q.Find(&experts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return experts, nil
}

func (r *directoryRepository) CreateExpert(ctx context.Context, expert *models.Expert) error {
	if err := r.db.WithContext(ctx).Create(expert).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *directoryRepository) UpdateExpert(ctx context.Context, expert *models.Expert) error {
	res := r.db.WithContext(ctx).Model(&models.Expert{}).Where("id = ?", expert.ID).Updates(expert)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Expert", expert.ID)
	}
	return nil
}

func (r *directoryRepository) DeleteExpert(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Expert{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Expert", id)
	}
	return nil
}

func (r *directoryRepository) ListCrops(ctx context.Context) ([]models.Crop, error) {
	var crops []models.Crop
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&crops).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return crops, nil
}

func (r *directoryRepository) GetCropByName(ctx context.Context, name string) (*models.Crop, error) {
	var crop models.Crop
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&crop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &crop, nil
}

func (r *directoryRepository) CreateCrop(ctx context.Context, crop *models.Crop) error {
	if err := r.db.WithContext(ctx).Create(crop).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("a crop with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *directoryRepository) UpdateCrop(ctx context.Context, crop *models.Crop) error {
	res := r.db.WithContext(ctx).Model(&models.Crop{}).Where("id = ?", crop.ID).Updates(crop)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewValidationError("a crop with this name already exists")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Crop", crop.ID)
	}
	return nil
}

func (r *directoryRepository) DeleteCrop(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Crop{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Crop", id)
	}
	return nil
}
