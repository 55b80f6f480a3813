// pkg/handlers/users.go
package handlers

import (
	"album-shuffle/config"
	"album-shuffle/pkg/interfaces"
	"album-shuffle/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserHandler handles per-user annotation HTTP requests
type UserHandler struct {
	log     *utils.Logger
	service interfaces.AnnotationServiceInterface
	config  *config.Config
}

// NewUserHandler creates a new user handler
func NewUserHandler(service interfaces.AnnotationServiceInterface, cfg *config.Config, log *utils.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		config:  cfg,
		log:     log,
	}
}

// ValidateUser is route middleware rejecting ids outside the
// configured user list.
func (h *UserHandler) ValidateUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !h.config.IsValidUser(userID) {
		return HTTPError(c, 404, "User not found")
	}
	return c.Next()
}

// GetImageData returns the annotation record for one image, defaulted
// if the user never touched it.
func (h *UserHandler) GetImageData(c *fiber.Ctx) error {
	userID := c.Params("userId")
	filename := c.Params("filename")

	return c.JSON(h.service.GetRecord(userID, filename))
}

// Like increments an image's like counter.
func (h *UserHandler) Like(c *fiber.Ctx) error {
	userID := c.Params("userId")
	filename := c.Params("filename")

	return c.JSON(h.service.Like(userID, filename))
}

// Unlike decrements an image's like counter.
func (h *UserHandler) Unlike(c *fiber.Ctx) error {
	userID := c.Params("userId")
	filename := c.Params("filename")

	return c.JSON(h.service.Unlike(userID, filename))
}

// ToggleBookmark flips an image's bookmark flag.
func (h *UserHandler) ToggleBookmark(c *fiber.Ctx) error {
	userID := c.Params("userId")
	filename := c.Params("filename")

	return c.JSON(h.service.ToggleBookmark(userID, filename))
}

// SetTags replaces an image's tag list.
func (h *UserHandler) SetTags(c *fiber.Ctx) error {
	userID := c.Params("userId")
	filename := c.Params("filename")

	var body struct {
		Tags []string `json:"tags"`
	}
	if err := c.BodyParser(&body); err != nil || body.Tags == nil {
		return HTTPError(c, 400, "Tags must be an array")
	}

	h.log.WithFunc().WithFields(logrus.Fields{
		"userId":   userID,
		"filename": filename,
		"tags":     body.Tags,
	}).Debug("Setting tags")

	return c.JSON(h.service.SetTags(userID, filename, body.Tags))
}

// SetDescription replaces an image's description.
func (h *UserHandler) SetDescription(c *fiber.Ctx) error {
	userID := c.Params("userId")
	filename := c.Params("filename")

	var body struct {
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil || body.Description == nil {
		return HTTPError(c, 400, "Description must be a string")
	}

	return c.JSON(h.service.SetDescription(userID, filename, *body.Description))
}

// BatchViews increments view counters for a batch of filenames.
func (h *UserHandler) BatchViews(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var body struct {
		Filenames []string `json:"filenames"`
	}
	if err := c.BodyParser(&body); err != nil || body.Filenames == nil {
		return HTTPError(c, 400, "Filenames must be an array")
	}

	h.service.BatchIncrementViews(userID, body.Filenames)
	return c.JSON(fiber.Map{"success": true})
}

// GetTags returns the user's global tags with usage info.
func (h *UserHandler) GetTags(c *fiber.Ctx) error {
	userID := c.Params("userId")
	return c.JSON(h.service.TagsWithUsage(userID))
}

// GetSummary returns the user's aggregate annotation stats.
func (h *UserHandler) GetSummary(c *fiber.Ctx) error {
	userID := c.Params("userId")
	return c.JSON(h.service.Summary(userID))
}
