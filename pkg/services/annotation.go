// pkg/services/annotation.go
package service

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"album-shuffle/config"
	"album-shuffle/pkg/models"
	utils "album-shuffle/pkg/utils"
)

// AnnotationService owns per-user annotation state. Each user's data
// lives in an in-memory cache for the process lifetime and is flushed
// to one JSON file per user on a debounce timer: every mutation resets
// the user's timer, so bursts of edits collapse into a single write of
// the latest state. Reads always hit the cache, never the file, so a
// write is visible to readers immediately.
type AnnotationService struct {
	config      *config.Config
	pathManager *utils.PathManager
	log         *utils.Logger
	debounce    time.Duration

	mu      sync.Mutex
	cache   map[string]*models.UserData
	pending map[string]*time.Timer
}

// NewAnnotationService creates a new annotation service.
func NewAnnotationService(cfg *config.Config, log *utils.Logger) *AnnotationService {
	pm := utils.NewPathManager(cfg.Storage.ImagesDir, cfg.Storage.DataDir, log)

	return &AnnotationService{
		config:      cfg,
		pathManager: pm,
		log:         log,
		debounce:    time.Duration(cfg.Storage.WriteDebounceMs) * time.Millisecond,
		cache:       map[string]*models.UserData{},
		pending:     map[string]*time.Timer{},
	}
}

// load returns the cached UserData for a user, reading the user's file
// on first access. Any read or parse failure degrades to a fresh empty
// UserData; the caller never sees an error. Caller must hold s.mu.
func (s *AnnotationService) load(userID string) *models.UserData {
	if ud, ok := s.cache[userID]; ok {
		return ud
	}

	ud := models.NewUserData(userID)
	path := s.pathManager.GetUserDataPath(userID)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, ud); err != nil {
			s.log.WithFunc().WithError(err).WithField("userId", userID).Error("Failed to parse user data, starting fresh")
			ud = models.NewUserData(userID)
		} else {
			// Tolerate legacy files missing the derived fields.
			ud.UserID = userID
			if ud.Images == nil {
				ud.Images = map[string]*models.AnnotationRecord{}
			}
			if ud.Tags == nil {
				ud.Tags = []string{}
			}
			if ud.TagUsage == nil {
				ud.TagUsage = map[string]int64{}
			}
		}
	case !os.IsNotExist(err):
		s.log.WithFunc().WithError(err).WithField("userId", userID).Error("Failed to read user data, starting fresh")
	}

	s.cache[userID] = ud
	return ud
}

// scheduleSave resets the user's debounce timer. Caller must hold s.mu.
func (s *AnnotationService) scheduleSave(userID string) {
	if t, ok := s.pending[userID]; ok {
		t.Stop()
	}
	s.pending[userID] = time.AfterFunc(s.debounce, func() {
		s.Flush(userID)
	})
}

// Flush cancels any pending timer for the user and writes the current
// in-memory state synchronously. The JSON snapshot is taken under the
// lock; file I/O happens outside it.
func (s *AnnotationService) Flush(userID string) {
	s.mu.Lock()
	if t, ok := s.pending[userID]; ok {
		t.Stop()
		delete(s.pending, userID)
	}
	ud, ok := s.cache[userID]
	if !ok {
		s.mu.Unlock()
		return
	}
	data, err := json.MarshalIndent(ud, "", "  ")
	s.mu.Unlock()

	if err != nil {
		s.log.WithFunc().WithError(err).WithField("userId", userID).Error("Failed to serialize user data")
		return
	}

	s.writeUserFile(userID, data)
}

// writeUserFile persists a serialized snapshot: write a temp sibling,
// then rename over the destination so no reader ever sees a partial
// file. If that fails, fall back to a direct write rather than losing
// the update.
func (s *AnnotationService) writeUserFile(userID string, data []byte) {
	path := s.pathManager.GetUserDataPath(userID)
	tempPath := s.pathManager.GetUserDataTempPath(userID)

	err := os.WriteFile(tempPath, data, 0644)
	if err == nil {
		err = os.Rename(tempPath, path)
	}
	if err != nil {
		s.log.WithFunc().WithError(err).WithField("userId", userID).Warn("Atomic write failed, falling back to direct write")
		if err := os.WriteFile(path, data, 0644); err != nil {
			s.log.WithFunc().WithError(err).WithField("userId", userID).Error("Failed to save user data")
		}
	}
}

// Close stops all pending timers and flushes every cached user.
func (s *AnnotationService) Close() {
	s.mu.Lock()
	users := make([]string, 0, len(s.cache))
	for userID := range s.cache {
		users = append(users, userID)
	}
	s.mu.Unlock()

	for _, userID := range users {
		s.Flush(userID)
	}
}

// cloneRecord copies a record so callers can read it without holding
// the lock.
func cloneRecord(rec *models.AnnotationRecord) *models.AnnotationRecord {
	out := *rec
	return &out
}

// GetRecord returns the record for an image, or the implicit default
// if the image was never annotated. Never mutates.
func (s *AnnotationService) GetRecord(userID, filename string) *models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.load(userID).Images[filename]; ok {
		return cloneRecord(rec)
	}
	return models.DefaultAnnotationRecord()
}

// Records returns a snapshot of the user's record map. Images never
// annotated are absent from it.
func (s *AnnotationService) Records(userID string) map[string]*models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.load(userID)
	out := make(map[string]*models.AnnotationRecord, len(ud.Images))
	for filename, rec := range ud.Images {
		out[filename] = cloneRecord(rec)
	}
	return out
}

// Like increments the like counter, clamped at models.MaxLikes.
func (s *AnnotationService) Like(userID, filename string) *models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load(userID).Ensure(filename)
	if rec.Likes < models.MaxLikes {
		rec.Likes++
	}
	s.scheduleSave(userID)
	return cloneRecord(rec)
}

// Unlike decrements the like counter, clamped at zero.
func (s *AnnotationService) Unlike(userID, filename string) *models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load(userID).Ensure(filename)
	if rec.Likes > 0 {
		rec.Likes--
	}
	s.scheduleSave(userID)
	return cloneRecord(rec)
}

// ToggleBookmark flips the bookmark flag.
func (s *AnnotationService) ToggleBookmark(userID, filename string) *models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load(userID).Ensure(filename)
	rec.Bookmarked = !rec.Bookmarked
	s.scheduleSave(userID)
	return cloneRecord(rec)
}

// SetTags replaces an image's tag list, then recomputes the user's
// global tag set: the sorted union of tags across all images. Every
// tag in the new list gets its usage timestamp refreshed, and usage
// entries for tags no longer referenced anywhere are dropped.
func (s *AnnotationService) SetTags(userID, filename string, tags []string) *models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.load(userID)
	rec := ud.Ensure(filename)
	rec.Tags = append([]string{}, tags...)

	used := map[string]bool{}
	for _, img := range ud.Images {
		for _, tag := range img.Tags {
			used[tag] = true
		}
	}

	now := time.Now().UnixMilli()
	for _, tag := range tags {
		ud.TagUsage[tag] = now
	}
	for tag := range ud.TagUsage {
		if !used[tag] {
			delete(ud.TagUsage, tag)
		}
	}

	ud.Tags = make([]string, 0, len(used))
	for tag := range used {
		ud.Tags = append(ud.Tags, tag)
	}
	sort.Strings(ud.Tags)

	s.scheduleSave(userID)
	return cloneRecord(rec)
}

// SetDescription replaces an image's description verbatim.
func (s *AnnotationService) SetDescription(userID, filename, description string) *models.AnnotationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load(userID).Ensure(filename)
	rec.Description = description
	s.scheduleSave(userID)
	return cloneRecord(rec)
}

// BatchIncrementViews bumps the view counter once per listed filename;
// duplicates count multiple times. One persist is scheduled for the
// whole batch.
func (s *AnnotationService) BatchIncrementViews(userID string, filenames []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.load(userID)
	for _, filename := range filenames {
		ud.Ensure(filename).ViewCount++
	}
	s.scheduleSave(userID)
}

// TagsWithUsage lists the user's global tags with their last-used
// timestamp and the number of images currently carrying each.
func (s *AnnotationService) TagsWithUsage(userID string) []models.TagInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.load(userID)
	counts := map[string]int{}
	for _, img := range ud.Images {
		for _, tag := range img.Tags {
			counts[tag]++
		}
	}

	tags := make([]models.TagInfo, 0, len(ud.Tags))
	for _, tag := range ud.Tags {
		tags = append(tags, models.TagInfo{
			Name:     tag,
			LastUsed: ud.TagUsage[tag],
			Count:    counts[tag],
		})
	}
	return tags
}

// collect gathers the user's images matching pred. Caller must hold s.mu.
func (s *AnnotationService) collect(userID string, pred func(*models.AnnotationRecord) bool) []models.AnnotatedImage {
	ud := s.load(userID)
	images := []models.AnnotatedImage{}
	for filename, rec := range ud.Images {
		if pred(rec) {
			images = append(images, models.AnnotatedImage{
				Filename:         filename,
				AnnotationRecord: *rec,
			})
		}
	}
	return images
}

// ByLikes lists images with likes > 0, most liked first. Ties break by
// filename so the order is stable across map iterations.
func (s *AnnotationService) ByLikes(userID string, limit int) []models.AnnotatedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := s.collect(userID, func(rec *models.AnnotationRecord) bool {
		return rec.Likes > 0
	})
	sort.Slice(images, func(i, j int) bool {
		if images[i].Likes != images[j].Likes {
			return images[i].Likes > images[j].Likes
		}
		return images[i].Filename < images[j].Filename
	})
	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}
	return images
}

// ByViews lists images with viewCount > 0, most viewed first. Ties
// break by filename.
func (s *AnnotationService) ByViews(userID string, limit int) []models.AnnotatedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := s.collect(userID, func(rec *models.AnnotationRecord) bool {
		return rec.ViewCount > 0
	})
	sort.Slice(images, func(i, j int) bool {
		if images[i].ViewCount != images[j].ViewCount {
			return images[i].ViewCount > images[j].ViewCount
		}
		return images[i].Filename < images[j].Filename
	})
	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}
	return images
}

// Bookmarked lists all bookmarked images.
func (s *AnnotationService) Bookmarked(userID string) []models.AnnotatedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(userID, func(rec *models.AnnotationRecord) bool {
		return rec.Bookmarked
	})
}

// ByTag lists all images carrying the given tag.
func (s *AnnotationService) ByTag(userID, tag string) []models.AnnotatedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(userID, func(rec *models.AnnotationRecord) bool {
		return rec.HasTag(tag)
	})
}

// AllTagged lists all images carrying at least one tag.
func (s *AnnotationService) AllTagged(userID string) []models.AnnotatedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(userID, func(rec *models.AnnotationRecord) bool {
		return rec.HasTags()
	})
}

// Summary aggregates the user's annotation activity with a full scan
// of the image records.
func (s *AnnotationService) Summary(userID string) *models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.load(userID)
	stats := &models.UserStats{TotalTags: len(ud.Tags)}
	for _, rec := range ud.Images {
		stats.TotalViews += rec.ViewCount
		stats.TotalLikes += rec.Likes
		if rec.Bookmarked {
			stats.TotalBookmarks++
		}
		if rec.HasTags() {
			stats.TaggedImages++
		}
	}
	return stats
}

// DataDir returns the directory holding the per-user JSON files.
func (s *AnnotationService) DataDir() string {
	return s.pathManager.GetDataDir()
}
