package interfaces

import (
	"album-shuffle/pkg/models"
	storage "album-shuffle/pkg/utils"
)

// FeedServiceInterface serves the shuffled, filterable image feed.
type FeedServiceInterface interface {
	// Scan returns the cached image list, reading the directory on first use
	Scan() []string
	// ShuffledOrder returns the deterministic permutation for a seed
	ShuffledOrder(seed string) []string
	// Page slices one window out of the (optionally filtered) ordering
	Page(seed string, offset, limit int, userID string, filter models.FeedFilter) *models.FeedPage
	// Refresh invalidates the cache and re-scans, returning the new count
	Refresh() int
	// GetPathManager returns the path manager
	GetPathManager() *storage.PathManager
}

// AnnotationServiceInterface owns per-user annotation state and its
// debounced persistence.
type AnnotationServiceInterface interface {
	// GetRecord returns the record for an image, defaulted if absent
	GetRecord(userID, filename string) *models.AnnotationRecord
	// Records returns a snapshot of the user's record map; images never
	// annotated are absent from it
	Records(userID string) map[string]*models.AnnotationRecord
	// Like increments the like counter, clamped at MaxLikes
	Like(userID, filename string) *models.AnnotationRecord
	// Unlike decrements the like counter, clamped at zero
	Unlike(userID, filename string) *models.AnnotationRecord
	// ToggleBookmark flips the bookmark flag
	ToggleBookmark(userID, filename string) *models.AnnotationRecord
	// SetTags replaces an image's tags and recomputes the global tag set
	SetTags(userID, filename string, tags []string) *models.AnnotationRecord
	// SetDescription replaces an image's description verbatim
	SetDescription(userID, filename, description string) *models.AnnotationRecord
	// BatchIncrementViews bumps view counts, one per listed filename
	BatchIncrementViews(userID string, filenames []string)
	// TagsWithUsage lists the user's global tags with recency and counts
	TagsWithUsage(userID string) []models.TagInfo
	// ByLikes lists liked images sorted by like count descending
	ByLikes(userID string, limit int) []models.AnnotatedImage
	// ByViews lists viewed images sorted by view count descending
	ByViews(userID string, limit int) []models.AnnotatedImage
	// Bookmarked lists all bookmarked images
	Bookmarked(userID string) []models.AnnotatedImage
	// ByTag lists all images carrying the given tag
	ByTag(userID, tag string) []models.AnnotatedImage
	// AllTagged lists all images carrying at least one tag
	AllTagged(userID string) []models.AnnotatedImage
	// Summary aggregates the user's annotation activity
	Summary(userID string) *models.UserStats
	// Flush writes any pending state for the user synchronously
	Flush(userID string)
	// Close stops pending timers and flushes everything
	Close()
}

// BackupServiceInterface backs up the annotation data directory to a
// cloud provider.
type BackupServiceInterface interface {
	BackupData() error
	RestoreData() error
}
