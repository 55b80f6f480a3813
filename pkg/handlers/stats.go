// pkg/handlers/stats.go
package handlers

import (
	"net/url"

	"album-shuffle/pkg/interfaces"
	"album-shuffle/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// defaultStatsLimit caps the most-liked / most-viewed listings.
const defaultStatsLimit = 50

// StatsHandler handles per-user stats listings
type StatsHandler struct {
	log     *utils.Logger
	service interfaces.AnnotationServiceInterface
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service interfaces.AnnotationServiceInterface, log *utils.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log,
	}
}

// MostLiked lists the user's most liked images.
func (h *StatsHandler) MostLiked(c *fiber.Ctx) error {
	userID := c.Params("userId")
	limit := c.QueryInt("limit", defaultStatsLimit)

	return c.JSON(h.service.ByLikes(userID, limit))
}

// MostViewed lists the user's most viewed images.
func (h *StatsHandler) MostViewed(c *fiber.Ctx) error {
	userID := c.Params("userId")
	limit := c.QueryInt("limit", defaultStatsLimit)

	return c.JSON(h.service.ByViews(userID, limit))
}

// Bookmarked lists the user's bookmarked images.
func (h *StatsHandler) Bookmarked(c *fiber.Ctx) error {
	userID := c.Params("userId")
	return c.JSON(h.service.Bookmarked(userID))
}

// ByTag lists the user's images carrying a specific tag.
func (h *StatsHandler) ByTag(c *fiber.Ctx) error {
	userID := c.Params("userId")

	tag := c.Params("tagName")
	if decoded, err := url.PathUnescape(tag); err == nil {
		tag = decoded
	}

	return c.JSON(h.service.ByTag(userID, tag))
}

// Tagged lists all of the user's images carrying at least one tag.
func (h *StatsHandler) Tagged(c *fiber.Ctx) error {
	userID := c.Params("userId")
	return c.JSON(h.service.AllTagged(userID))
}
