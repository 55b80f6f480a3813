package handlers

import (
	config "album-shuffle/config"
	"album-shuffle/pkg/interfaces"
	utils "album-shuffle/pkg/utils"
	"album-shuffle/pkg/version"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler renders the server status page
type HomeHandler struct {
	feed   interfaces.FeedServiceInterface
	config *config.Config
	log    *utils.Logger
}

func NewHomeHandler(feed interfaces.FeedServiceInterface, cfg *config.Config, log *utils.Logger) *HomeHandler {
	return &HomeHandler{
		feed:   feed,
		config: cfg,
		log:    log,
	}
}

func (h *HomeHandler) DisplayHome(c *fiber.Ctx) error {
	h.log.WithFunc().Debug("Processing home page request")

	return c.Render("home", fiber.Map{
		"Title":      h.config.App.Title,
		"ImageCount": len(h.feed.Scan()),
		"UserCount":  len(h.config.Users),
		"Version":    version.String(),
	})
}
