// pkg/models/feed.go
package models

// FeedPage is one window of the shuffled (and optionally filtered) feed.
type FeedPage struct {
	Images  []string `json:"images"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
	Total   int      `json:"total"`
	HasMore bool     `json:"hasMore"`
}

// FeedFilter holds the per-request annotation filter flags. Active
// flags are AND-combined when testing a record.
type FeedFilter struct {
	Liked      bool
	Bookmarked bool
	Tagged     bool
	Untagged   bool
	Described  bool
}

// Active reports whether any filter flag is set.
func (f FeedFilter) Active() bool {
	return f.Liked || f.Bookmarked || f.Tagged || f.Untagged || f.Described
}

// Match tests an annotation record against the active flags. A nil
// record (image never annotated) counts as untagged but fails every
// positive filter.
func (f FeedFilter) Match(rec *AnnotationRecord) bool {
	if rec == nil {
		return f.Untagged && !f.Liked && !f.Bookmarked && !f.Tagged && !f.Described
	}
	if f.Liked && rec.Likes <= 0 {
		return false
	}
	if f.Bookmarked && !rec.Bookmarked {
		return false
	}
	if f.Tagged && !rec.HasTags() {
		return false
	}
	if f.Untagged && rec.HasTags() {
		return false
	}
	if f.Described && rec.Description == "" {
		return false
	}
	return true
}
