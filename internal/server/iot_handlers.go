// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"time"

	"farmiq/internal/models"
	"farmiq/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateBooking handles POST /api/iot/bookings
func (s *Server) CreateBooking(c *fiber.Ctx) error {
	var req struct {
		SensorType string     `json:"sensor_type"`
		StartDate  *time.Time `json:"start_date"`
		EndDate    *time.Time `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	booking, err := s.iotService.CreateBooking(c.Context(), service.CreateBookingInput{
		UserID:     currentUserID(c),
		SensorType: req.SensorType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// GetMyBookings handles GET /api/iot/bookings/me
func (s *Server) GetMyBookings(c *fiber.Ctx) error {
	bookings, err := s.iotService.MyBookings(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// GetReadings handles GET /api/iot/readings: proxies the caller's active
// ThingSpeak channel feed.
func (s *Server) GetReadings(c *fiber.Ctx) error {
	results := c.QueryInt("results", 20)

	feed, err := s.iotService.Readings(c.UserContext(), currentUserID(c), results)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"channel": feed.Channel,
		"feeds":   feed.Entries,
	})
}

// SetLED handles POST /api/iot/led: toggles the demo LED via Blynk.
func (s *Server) SetLED(c *fiber.Ctx) error {
	var req struct {
		On *bool `json:"on"`
	}
	if err := c.BodyParser(&req); err != nil || req.On == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Field 'on' (boolean) is required"))
	}

	if err := s.iotService.SetLED(c.UserContext(), *req.On); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	state := "off"
	if *req.On {
		state = "on"
	}
	return c.JSON(fiber.Map{"led": state})
}

// GetAllBookings handles GET /api/admin/bookings?status=
func (s *Server) GetAllBookings(c *fiber.Ctx) error {
	bookings, err := s.iotService.ListBookings(c.Context(), c.Query("status"))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// UpdateBooking handles PUT /api/admin/bookings/:id (status/channel updates)
func (s *Server) UpdateBooking(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status    string `json:"status"`
		ChannelID string `json:"channel_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	booking, err := s.iotService.UpdateBooking(c.Context(), service.UpdateBookingInput{
		BookingID: id,
		Status:    req.Status,
		ChannelID: req.ChannelID,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}
