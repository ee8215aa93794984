// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"farmiq/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetLabs handles GET /api/labs?state=&district=
func (s *Server) GetLabs(c *fiber.Ctx) error {
	labs, err := s.directoryRepo.ListLabs(c.Context(), c.Query("state"), c.Query("district"))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"labs": labs})
}

// CreateLab handles POST /api/admin/labs
func (s *Server) CreateLab(c *fiber.Ctx) error {
	var lab models.Lab
	if err := c.BodyParser(&lab); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if lab.Name == "" || lab.State == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Lab name and state are required"))
	}
	lab.ID = 0

	if err := s.directoryRepo.CreateLab(c.Context(), &lab); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lab": lab})
}

// UpdateLab handles PUT /api/admin/labs/:id
func (s *Server) UpdateLab(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var lab models.Lab
	if err := c.BodyParser(&lab); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	lab.ID = id

	if err := s.directoryRepo.UpdateLab(c.Context(), &lab); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"lab": lab})
}

// DeleteLab handles DELETE /api/admin/labs/:id
func (s *Server) DeleteLab(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.directoryRepo.DeleteLab(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Lab deleted"})
}

// GetExperts handles GET /api/experts?specialization=
func (s *Server) GetExperts(c *fiber.Ctx) error {
	experts, err := s.directoryRepo.ListExperts(c.Context(), c.Query("specialization"))
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"experts": experts})
}

// CreateExpert handles POST /api/admin/experts
func (s *Server) CreateExpert(c *fiber.Ctx) error {
	var expert models.Expert
	if err := c.BodyParser(&expert); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if expert.Name == "" || expert.Specialization == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Expert name and specialization are required"))
	}
	expert.ID = 0

	if err := s.directoryRepo.CreateExpert(c.Context(), &expert); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"expert": expert})
}

// UpdateExpert handles PUT /api/admin/experts/:id
func (s *Server) UpdateExpert(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var expert models.Expert
	if err := c.BodyParser(&expert); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	expert.ID = id

	if err := s.directoryRepo.UpdateExpert(c.Context(), &expert); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"expert": expert})
}

// DeleteExpert handles DELETE /api/admin/experts/:id
func (s *Server) DeleteExpert(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.directoryRepo.DeleteExpert(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Expert deleted"})
}

// GetCrops handles GET /api/crops. With ?name= it looks up a single crop.
func (s *Server) GetCrops(c *fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		crop, err := s.directoryRepo.GetCropByName(c.Context(), name)
		if err != nil {
			return models.RespondWithError(c, statusForError(err), err)
		}
		if crop == nil {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Crop", name))
		}
		return c.JSON(fiber.Map{"crop": crop})
	}

	crops, err := s.directoryRepo.ListCrops(c.Context())
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"crops": crops})
}

// CreateCrop handles POST /api/admin/crops
func (s *Server) CreateCrop(c *fiber.Ctx) error {
	var crop models.Crop
	if err := c.BodyParser(&crop); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if crop.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Crop name is required"))
	}
	crop.ID = 0

	if err := s.directoryRepo.CreateCrop(c.Context(), &crop); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"crop": crop})
}

// UpdateCrop handles PUT /api/admin/crops/:id
func (s *Server) UpdateCrop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var crop models.Crop
	if err := c.BodyParser(&crop); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	crop.ID = id

	if err := s.directoryRepo.UpdateCrop(c.Context(), &crop); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"crop": crop})
}

// DeleteCrop handles DELETE /api/admin/crops/:id
func (s *Server) DeleteCrop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.directoryRepo.DeleteCrop(c.Context(), id); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Crop deleted"})
}
