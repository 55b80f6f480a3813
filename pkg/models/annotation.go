// pkg/models/annotation.go
package models

// AnnotationRecord holds the per-user state for a single image.
// Images the user never touched have no record on disk; readers treat
// the absence as DefaultAnnotationRecord().
type AnnotationRecord struct {
	Likes       int      `json:"likes"`
	Bookmarked  bool     `json:"bookmarked"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	ViewCount   int      `json:"viewCount"`
}

// MaxLikes caps the like counter per image.
const MaxLikes = 9

// DefaultAnnotationRecord returns the implicit record for an untouched image.
func DefaultAnnotationRecord() *AnnotationRecord {
	return &AnnotationRecord{Tags: []string{}}
}

// HasTags reports whether the record carries at least one tag.
// A nil tag slice (legacy data) counts as empty.
func (r *AnnotationRecord) HasTags() bool {
	return r != nil && len(r.Tags) > 0
}

// HasTag reports whether the record carries the given tag.
func (r *AnnotationRecord) HasTag(tag string) bool {
	if r == nil {
		return false
	}
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UserData is everything persisted for one user: per-image annotation
// records plus the derived global tag list and recency map.
// Invariant: Tags is exactly the sorted set of tag names used by at
// least one image, and TagUsage has no entry for a tag outside Tags.
type UserData struct {
	UserID   string                       `json:"userId"`
	Images   map[string]*AnnotationRecord `json:"images"`
	Tags     []string                     `json:"tags"`
	TagUsage map[string]int64             `json:"tagUsage"` // tag -> last-used epoch ms
}

// NewUserData creates an empty UserData for the given user.
func NewUserData(userID string) *UserData {
	return &UserData{
		UserID:   userID,
		Images:   map[string]*AnnotationRecord{},
		Tags:     []string{},
		TagUsage: map[string]int64{},
	}
}

// Ensure returns the record for filename, creating the default record
// in place if the image has never been annotated.
func (ud *UserData) Ensure(filename string) *AnnotationRecord {
	if rec, ok := ud.Images[filename]; ok {
		return rec
	}
	rec := DefaultAnnotationRecord()
	ud.Images[filename] = rec
	return rec
}

// TagInfo describes one global tag for a user.
type TagInfo struct {
	Name     string `json:"name"`
	LastUsed int64  `json:"lastUsed"`
	Count    int    `json:"count"`
}

// AnnotatedImage pairs a filename with its annotation record, used by
// the stats listings.
type AnnotatedImage struct {
	Filename string `json:"filename"`
	AnnotationRecord
}

// UserStats aggregates a user's annotation activity.
type UserStats struct {
	TotalViews     int `json:"totalViews"`
	TotalLikes     int `json:"totalLikes"`
	TotalBookmarks int `json:"totalBookmarks"`
	TaggedImages   int `json:"taggedImages"`
	TotalTags      int `json:"totalTags"`
}

// User is one entry of the configured user list.
type User struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}
