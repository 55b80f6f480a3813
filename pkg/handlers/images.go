// pkg/handlers/images.go
package handlers

import (
	"os"
	"strconv"

	"album-shuffle/config"
	"album-shuffle/pkg/interfaces"
	"album-shuffle/pkg/models"
	"album-shuffle/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// imageCacheControl is sent with image bytes; filenames are stable so
// clients may cache aggressively (7 days).
const imageCacheControl = "public, max-age=604800, immutable"

// ImageHandler handles feed and image file HTTP requests
type ImageHandler struct {
	log     *utils.Logger
	service interfaces.FeedServiceInterface
	config  *config.Config
}

// NewImageHandler creates a new image handler
func NewImageHandler(service interfaces.FeedServiceInterface, cfg *config.Config, log *utils.Logger) *ImageHandler {
	return &ImageHandler{
		service: service,
		config:  cfg,
		log:     log,
	}
}

// ListFeed returns one page of the shuffled image feed. A missing seed
// gets a generated one, so the client can keep it for a stable session.
func (h *ImageHandler) ListFeed(c *fiber.Ctx) error {
	seed := c.Query("seed")
	if seed == "" {
		seed = uuid.New().String()
	}

	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = h.config.Feed.BatchSize
	}

	userID := c.Query("userId")
	filter := models.FeedFilter{
		Liked:      c.Query("liked") == "true",
		Bookmarked: c.Query("bookmarked") == "true",
		Tagged:     c.Query("tagged") == "true",
		Untagged:   c.Query("untagged") == "true",
		Described:  c.Query("described") == "true",
	}

	h.log.WithFunc().WithFields(logrus.Fields{
		"seed":   seed,
		"offset": offset,
		"limit":  limit,
		"userId": userID,
	}).Debug("Listing feed page")

	page := h.service.Page(seed, offset, limit, userID, filter)
	return c.JSON(page)
}

// GetImageFile serves raw image bytes with long-lived cache headers.
func (h *ImageHandler) GetImageFile(c *fiber.Ctx) error {
	filename := c.Params("filename")

	if err := utils.ValidateFilename(filename); err != nil {
		h.log.WithFunc().WithError(err).WithField("filename", filename).Warn("Rejected image filename")
		return HTTPError(c, 400, "Invalid filename")
	}

	path := h.service.GetPathManager().GetImagePath(filename)
	if _, err := os.Stat(path); err != nil {
		return HTTPError(c, 404, "Image not found")
	}

	c.Set("Cache-Control", imageCacheControl)
	return c.SendFile(path)
}

// RefreshCache invalidates the directory scan and returns the new count.
func (h *ImageHandler) RefreshCache(c *fiber.Ctx) error {
	count := h.service.Refresh()

	h.log.WithFunc().WithField("count", count).Info("Image cache refreshed")

	return c.JSON(fiber.Map{
		"message": "Cache refreshed",
		"count":   count,
	})
}
