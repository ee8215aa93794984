package repository

import (
	"context"
	"errors"

	"farmiq/internal/models"

	"gorm.io/gorm"
)

// BookingRepository defines persistence operations for sensor bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.SensorBooking) error
	GetByID(ctx context.Context, id uint) (*models.SensorBooking, error)
	ListByUser(ctx context.Context, userID uint) ([]models.SensorBooking, error)
	List(ctx context.Context, status string) ([]models.SensorBooking, error)
	Update(ctx context.Context, booking *models.SensorBooking) error
	Delete(ctx context.Context, id uint) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository returns a new BookingRepository implementation.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.SensorBooking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*models.SensorBooking, error) {
	var booking models.SensorBooking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Booking", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uint) ([]models.SensorBooking, error) {
	var bookings []models.SensorBooking
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookings, nil
}

func (r *bookingRepository) List(ctx context.Context, status string) ([]models.SensorBooking, error) {
	var bookings []models.SensorBooking
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.SensorBooking) error {
	res := r.db.WithContext(ctx).Model(&models.SensorBooking{}).Where("id = ?", booking.ID).Updates(booking)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Booking", booking.ID)
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SensorBooking{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Booking", id)
	}
	return nil
}
