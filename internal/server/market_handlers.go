// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"farmiq/internal/market"
	"farmiq/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMarketPrices handles GET /api/market/prices.
// Responses are served from the in-process TTL cache when fresh; a miss
// fetches from the open-data API with concurrent identical misses coalesced.
func (s *Server) GetMarketPrices(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	if limit > s.config.MaxPageSize {
		limit = s.config.MaxPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	q := market.Query{
		State:     c.Query("state"),
		District:  c.Query("district"),
		Commodity: c.Query("commodity"),
		Offset:    offset,
		Limit:     limit,
	}

	resp, cached, err := s.marketService.Prices(c.UserContext(), q)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"records": resp.Records,
		"total":   resp.Total,
		"offset":  resp.Offset,
		"limit":   resp.Limit,
		"cached":  cached,
	})
}
