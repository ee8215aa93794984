// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"strconv"

	"farmiq/internal/models"
	"farmiq/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetSchemes handles GET /api/schemes
func (s *Server) GetSchemes(c *fiber.Ctx) error {
	schemes, err := s.schemeService.ListSchemes(c.Context())
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"schemes": schemes})
}

// GetEligibleSchemes handles GET /api/schemes/eligible?state=&landholding=&crop=
func (s *Server) GetEligibleSchemes(c *fiber.Ctx) error {
	landholding := 0.0
	if raw := c.Query("landholding"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("landholding must be a number (acres)"))
		}
		landholding = parsed
	}

	schemes, err := s.schemeService.EligibleSchemes(c.Context(), service.EligibilityInput{
		State:       c.Query("state"),
		Landholding: landholding,
		Crop:        c.Query("crop"),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"schemes": schemes})
}

// CreateScheme handles POST /api/admin/schemes
func (s *Server) CreateScheme(c *fiber.Ctx) error {
	var scheme models.Scheme
	if err := c.BodyParser(&scheme); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	scheme.ID = 0

	if err := s.schemeService.CreateScheme(c.Context(), &scheme); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"scheme": scheme})
}

// UpdateScheme handles PUT /api/admin/schemes/:id
func (s *Server) UpdateScheme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var scheme models.Scheme
	if err := c.BodyParser(&scheme); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	scheme.ID = id

	if err := s.schemeService.UpdateScheme(c.Context(), &scheme); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"scheme": scheme})
}

// DeleteScheme handles DELETE /api/admin/schemes/:id
func (s *Server) DeleteScheme(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.schemeService.DeleteScheme(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Scheme deleted"})
}
