package service

import (
	"context"
	"strings"
	"time"

	"farmiq/internal/cache"
	"farmiq/internal/models"
	"farmiq/internal/repository"
	"farmiq/internal/upstream"
)

// SensorFeedFetcher is the slice of the ThingSpeak client the IoT service
// needs; tests substitute a stub.
type SensorFeedFetcher interface {
	ChannelFeed(ctx context.Context, channelID string, results int) (*upstream.SensorFeed, error)
}

// LEDController mirrors the Blynk client surface.
type LEDController interface {
	SetLED(ctx context.Context, on bool) error
}

type IoTService struct {
	bookingRepo repository.BookingRepository
	feed        SensorFeedFetcher
	led         LEDController
}

type CreateBookingInput struct {
	UserID     uint
	SensorType string
	StartDate  *time.Time
	EndDate    *time.Time
}

type UpdateBookingInput struct {
	BookingID uint
	Status    string
	ChannelID string
}

var validSensorTypes = map[string]bool{
	"soil_moisture": true,
	"temperature":   true,
	"humidity":      true,
	"npk":           true,
}

func NewIoTService(bookingRepo repository.BookingRepository, feed SensorFeedFetcher, led LEDController) *IoTService {
	return &IoTService{bookingRepo: bookingRepo, feed: feed, led: led}
}

func (s *IoTService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.SensorBooking, error) {
	sensorType := strings.ToLower(strings.TrimSpace(in.SensorType))
	if !validSensorTypes[sensorType] {
		return nil, models.NewValidationError("Unknown sensor type")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, models.NewValidationError("End date cannot be before start date")
	}

	booking := &models.SensorBooking{
		UserID:     in.UserID,
		SensorType: sensorType,
		Status:     models.BookingStatusPending,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *IoTService) MyBookings(ctx context.Context, userID uint) ([]models.SensorBooking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *IoTService) ListBookings(ctx context.Context, status string) ([]models.SensorBooking, error) {
	return s.bookingRepo.List(ctx, status)
}

// UpdateBooking is the admin path that activates a booking and assigns the
// ThingSpeak channel backing it.
func (s *IoTService) UpdateBooking(ctx context.Context, in UpdateBookingInput) (*models.SensorBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	if in.Status != "" {
		switch in.Status {
		case models.BookingStatusPending, models.BookingStatusActive, models.BookingStatusCompleted:
			booking.Status = in.Status
		default:
			return nil, models.NewValidationError("Unknown booking status")
		}
	}
	if in.ChannelID != "" {
		booking.ChannelID = in.ChannelID
	}
	if booking.Status == models.BookingStatusActive && booking.ChannelID == "" {
		return nil, models.NewValidationError("Active bookings need a channel id")
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Readings proxies the caller's active sensor channel feed. Feeds change
// every few seconds upstream, so they sit in Redis for a short TTL to absorb
// dashboard polling.
func (s *IoTService) Readings(ctx context.Context, userID uint, results int) (*upstream.SensorFeed, error) {
	if results <= 0 || results > 100 {
		results = 20
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var channelID string
	for _, b := range bookings {
		if b.Status == models.BookingStatusActive && b.ChannelID != "" {
			channelID = b.ChannelID
			break
		}
	}
	if channelID == "" {
		return nil, models.NewNotFoundError("Active sensor booking for user", userID)
	}

	var feed upstream.SensorFeed
	err = cache.Aside(ctx, cache.ReadingsKey(channelID), &feed, cache.ReadingsTTL, func() error {
		fresh, err := s.feed.ChannelFeed(ctx, channelID, results)
		if err != nil {
			return err
		}
		feed = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// SetLED toggles the demo LED on the field kit.
func (s *IoTService) SetLED(ctx context.Context, on bool) error {
	return s.led.SetLED(ctx, on)
}
