package handlers

import (
	cfg "album-shuffle/config"
	"album-shuffle/pkg/interfaces"
	utils "album-shuffle/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// BackupHandler exposes backup/restore of the annotation data directory
type BackupHandler struct {
	backupService interfaces.BackupServiceInterface
	log           *utils.Logger
	config        *cfg.Config
}

func NewBackupHandler(backupService interfaces.BackupServiceInterface, log *utils.Logger, config *cfg.Config) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
		log:           log,
		config:        config,
	}
}

func (h *BackupHandler) IsBackupEnabled() bool {
	if h.config == nil || !h.config.Backup.Enabled {
		return false
	}

	return (h.config.Backup.Provider == "aws" && h.config.Backup.AWS.Bucket != "") ||
		(h.config.Backup.Provider == "gcp" && h.config.Backup.GCP.Bucket != "") ||
		(h.config.Backup.Provider == "azure" && h.config.Backup.Azure.Container != "")
}

func (h *BackupHandler) GetBackupStatus(c *fiber.Ctx) error {
	if h.config == nil {
		return c.JSON(fiber.Map{
			"enabled":  false,
			"provider": "none",
		})
	}

	return c.JSON(fiber.Map{
		"enabled":  h.IsBackupEnabled(),
		"provider": h.config.Backup.Provider,
	})
}

func (h *BackupHandler) HandleBackup(c *fiber.Ctx) error {
	if h.backupService == nil {
		return HTTPError(c, 400, "Backup is not configured")
	}

	if err := h.backupService.BackupData(); err != nil {
		h.log.WithError(err).Error("Backup failed")
		return HTTPError(c, 500, err.Error())
	}

	h.log.Info("Backup successful")
	return c.JSON(fiber.Map{
		"message": "Backup completed successfully",
	})
}

func (h *BackupHandler) HandleRestore(c *fiber.Ctx) error {
	if h.backupService == nil {
		return HTTPError(c, 400, "Backup is not configured")
	}

	if err := h.backupService.RestoreData(); err != nil {
		h.log.WithError(err).Error("Restore failed")
		return HTTPError(c, 500, err.Error())
	}

	h.log.Info("Restore successful")
	return c.JSON(fiber.Map{
		"message": "Restore completed successfully",
	})
}
