// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"bytes"
	"image"
	"io"
	"net/http"

	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder

	"farmiq/internal/models"

	"github.com/gofiber/fiber/v2"
)

// maxImageUploadBytes bounds crop image uploads at 10 MB.
const maxImageUploadBytes = 10 << 20

// PredictDisease handles POST /api/disease/predict. The uploaded leaf image
// is validated locally, then proxied to the inference service.
func (s *Server) PredictDisease(c *fiber.Ctx) error {
	filename, content, err := s.readUploadedImage(c)
	if err != nil {
		return nil // response already written
	}

	prediction, err := s.inferenceClient.PredictDisease(c.UserContext(), filename, content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"prediction": prediction})
}

// PredictSoil handles POST /api/disease/soil-predict with a soil photo.
func (s *Server) PredictSoil(c *fiber.Ctx) error {
	filename, content, err := s.readUploadedImage(c)
	if err != nil {
		return nil // response already written
	}

	prediction, err := s.inferenceClient.PredictSoil(c.UserContext(), filename, content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"prediction": prediction})
}

// readUploadedImage extracts and validates the multipart "file" field. On
// failure it writes the error response and returns errResponseWritten.
func (s *Server) readUploadedImage(c *fiber.Ctx) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required (multipart field 'file')"))
		return "", nil, errResponseWritten
	}
	if fileHeader.Size > maxImageUploadBytes {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image too large (max 10 MB)"))
		return "", nil, errResponseWritten
	}

	f, err := fileHeader.Open()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
		return "", nil, errResponseWritten
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxImageUploadBytes+1))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
		return "", nil, errResponseWritten
	}
	if len(content) > maxImageUploadBytes {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image too large (max 10 MB)"))
		return "", nil, errResponseWritten
	}

	switch http.DetectContentType(content) {
	case "image/jpeg", "image/png", "image/webp":
	default:
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported image type: use JPEG, PNG or WebP"))
		return "", nil, errResponseWritten
	}

	// Decode the header to reject files that merely carry an image MIME type.
	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File is not a valid image"))
		return "", nil, errResponseWritten
	}

	return fileHeader.Filename, content, nil
}
