// pkg/services/feed.go
package service

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"album-shuffle/config"
	"album-shuffle/pkg/interfaces"
	"album-shuffle/pkg/models"
	utils "album-shuffle/pkg/utils"
)

// supportedExtensions is the image file allow-list for directory scans.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FeedService serves the shuffled image feed. The directory scan is
// cached until Refresh; permutations are recomputed per request from
// the seed, so identical seeds yield identical orderings as long as
// the scan cache is unchanged.
type FeedService struct {
	config      *config.Config
	pathManager *utils.PathManager
	log         *utils.Logger
	annotations interfaces.AnnotationServiceInterface

	mu     sync.RWMutex
	cached []string // nil until the first successful scan
}

// NewFeedService creates a new feed service. The annotation service is
// consulted when a page request carries filter flags.
func NewFeedService(cfg *config.Config, log *utils.Logger, annotations interfaces.AnnotationServiceInterface) *FeedService {
	pm := utils.NewPathManager(cfg.Storage.ImagesDir, cfg.Storage.DataDir, log)

	return &FeedService{
		config:      cfg,
		pathManager: pm,
		log:         log,
		annotations: annotations,
	}
}

// GetPathManager returns the path manager.
func (s *FeedService) GetPathManager() *utils.PathManager {
	return s.pathManager
}

// Scan returns the cached image list, reading the directory on first
// use. A failed scan logs, returns an empty list and is not cached, so
// the next call retries.
func (s *FeedService) Scan() []string {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached
	}

	images, err := s.scanDir()
	if err != nil {
		s.log.WithFunc().WithError(err).WithField("dir", s.pathManager.GetImagesDir()).Error("Failed to scan images directory")
		return []string{}
	}

	s.log.WithFunc().WithField("count", len(images)).Info("Scanned images directory")
	s.cached = images
	return s.cached
}

// scanDir lists eligible regular files in directory order.
func (s *FeedService) scanDir() ([]string, error) {
	entries, err := os.ReadDir(s.pathManager.GetImagesDir())
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !supportedExtensions[ext] {
			continue
		}
		info, err := os.Stat(s.pathManager.GetImagePath(entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		images = append(images, entry.Name())
	}

	return images, nil
}

// ShuffledOrder returns the seeded Fisher-Yates permutation of the
// current scan. Deterministic for a fixed seed and scan snapshot.
func (s *FeedService) ShuffledOrder(seed string) []string {
	images := append([]string{}, s.Scan()...)
	utils.NewSeedRand(seed).Shuffle(images)
	return images
}

// Page slices one window out of the shuffled ordering. When filter
// flags are set and a user id is given, the ordering is first reduced
// to images whose annotation record matches all active flags.
func (s *FeedService) Page(seed string, offset, limit int, userID string, filter models.FeedFilter) *models.FeedPage {
	order := s.ShuffledOrder(seed)

	if filter.Active() && userID != "" {
		records := s.annotations.Records(userID)
		filtered := make([]string, 0, len(order))
		for _, filename := range order {
			if filter.Match(records[filename]) {
				filtered = append(filtered, filename)
			}
		}
		order = filtered
	}

	total := len(order)
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	images := []string{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		images = order[offset:end]
	}

	return &models.FeedPage{
		Images:  images,
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: offset+limit < total,
	}
}

// Refresh invalidates the scan cache, re-scans and returns the new count.
func (s *FeedService) Refresh() int {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	return len(s.Scan())
}
