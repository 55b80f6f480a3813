package main

import (
	"fmt"
	"os"
	"time"

	"album-shuffle/config"
	"album-shuffle/pkg/handlers"
	"album-shuffle/pkg/interfaces"
	service "album-shuffle/pkg/services"
	"album-shuffle/pkg/utils"
	"album-shuffle/pkg/version"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
)

// setupServices wires the annotation store, the feed engine on top of
// it, and the optional backup service.
func setupServices(cfg *config.Config, log *utils.Logger) (interfaces.FeedServiceInterface, interfaces.AnnotationServiceInterface, interfaces.BackupServiceInterface) {
	annotationService := service.NewAnnotationService(cfg, log)
	feedService := service.NewFeedService(cfg, log, annotationService)

	var backupService interfaces.BackupServiceInterface
	if bs, err := service.NewBackupService(cfg, log); err != nil {
		log.WithFunc().WithError(err).Fatal("Failed to initialize backup service")
	} else if bs != nil {
		backupService = bs
		log.Info("Backup service enabled")
	}

	return feedService, annotationService, backupService
}

func setupHandlers(
	feedService interfaces.FeedServiceInterface,
	annotationService interfaces.AnnotationServiceInterface,
	backupService interfaces.BackupServiceInterface,
	cfg *config.Config,
	log *utils.Logger,
) (*handlers.ImageHandler, *handlers.UserHandler, *handlers.StatsHandler, *handlers.ConfigHandler, *handlers.HomeHandler, *handlers.BackupHandler) {
	imageHandler := handlers.NewImageHandler(feedService, cfg, log)
	userHandler := handlers.NewUserHandler(annotationService, cfg, log)
	statsHandler := handlers.NewStatsHandler(annotationService, log)
	configHandler := handlers.NewConfigHandler(cfg, log)
	homeHandler := handlers.NewHomeHandler(feedService, cfg, log)
	backupHandler := handlers.NewBackupHandler(backupService, log, cfg)

	return imageHandler, userHandler, statsHandler, configHandler, homeHandler, backupHandler
}

func main() {
	// Configuration - load first to get logging settings
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logConfig := utils.Config{
		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,
		Pretty:    true,
	}
	if logConfig.LogLevel == "" {
		logConfig.LogLevel = "info"
	}
	if logConfig.LogFormat == "" {
		logConfig.LogFormat = "text"
	}
	log := utils.NewLogger(logConfig)

	log.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.Commit,
	}).Info("album shuffle starting")

	// Services
	feedService, annotationService, backupService := setupServices(cfg, log)
	defer annotationService.Close()

	// Scan images on startup so the first feed request is served from cache
	log.WithField("count", len(feedService.Scan())).Info("Images scanned")

	// Handlers
	imageHandler, userHandler, statsHandler, configHandler, homeHandler, backupHandler := setupHandlers(
		feedService,
		annotationService,
		backupService,
		cfg,
		log,
	)

	// Fiber app configuration
	app := fiber.New(fiber.Config{
		AppName:       cfg.App.Title,
		CaseSensitive: true,
		Views:         html.New("./views", ".html"),

		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
				"error":  err.Error(),
			}).Error("Error handling request")
			return c.Status(500).SendString("Internal Server Error")
		},
	})

	// Request logging middleware
	app.Use(func(c *fiber.Ctx) error {
		if c.Path() == "/api/health" {
			log.Debug("Health check")
			return c.Next()
		}

		log.WithFields(logrus.Fields{
			"path":   c.Path(),
			"method": c.Method(),
			"route":  c.Route().Path,
		}).Info("Incoming request")

		return c.Next()
	})

	app.Get("/", homeHandler.DisplayHome)
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	app.Get("/api/config", configHandler.GetConfig)

	// Feed routes
	images := app.Group("/api/images")
	images.Get("/list", imageHandler.ListFeed)
	images.Get("/file/:filename", imageHandler.GetImageFile)
	images.Post("/refresh", imageHandler.RefreshCache)

	// Per-user routes, all behind the user validation middleware
	users := app.Group("/api/users/:userId", userHandler.ValidateUser)
	users.Get("/image/:filename", userHandler.GetImageData)
	users.Post("/image/:filename/like", userHandler.Like)
	users.Post("/image/:filename/unlike", userHandler.Unlike)
	users.Post("/image/:filename/bookmark", userHandler.ToggleBookmark)
	users.Post("/image/:filename/tags", userHandler.SetTags)
	users.Post("/image/:filename/description", userHandler.SetDescription)
	users.Post("/views/batch", userHandler.BatchViews)
	users.Get("/tags", userHandler.GetTags)
	users.Get("/summary", userHandler.GetSummary)
	users.Get("/stats/most-liked", statsHandler.MostLiked)
	users.Get("/stats/most-viewed", statsHandler.MostViewed)
	users.Get("/stats/bookmarked", statsHandler.Bookmarked)
	users.Get("/stats/by-tag/:tagName", statsHandler.ByTag)
	users.Get("/stats/tagged", statsHandler.Tagged)

	// Backup routes
	app.Get("/backup/status", backupHandler.GetBackupStatus)
	app.Post("/backup", backupHandler.HandleBackup)
	app.Post("/restore", backupHandler.HandleRestore)

	// Serve the built client if present
	if _, err := os.Stat("./client/dist"); err == nil {
		app.Static("/", "./client/dist")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.WithField("addr", addr).Info("Starting server")

	if err := app.Listen(addr); err != nil {
		log.WithFunc().WithError(err).Fatal("HTTP Server failed")
	}
}
