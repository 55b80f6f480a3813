package handlers

import (
	config "album-shuffle/config"
	utils "album-shuffle/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// ConfigHandler exposes the client-facing configuration
type ConfigHandler struct {
	log    *utils.Logger
	config *config.Config
}

func NewConfigHandler(config *config.Config, logger *utils.Logger) *ConfigHandler {
	return &ConfigHandler{
		config: config,
		log:    logger,
	}
}

// GetConfig returns the app title and user list the client needs to
// render the user picker. Nothing else from the config is exposed.
func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"appTitle": h.config.App.Title,
		"users":    h.config.Users,
	})
}
