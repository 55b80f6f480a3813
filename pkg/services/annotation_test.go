package service

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"album-shuffle/pkg/models"

	"github.com/stretchr/testify/assert"
)

func newAnnotationEnv(t *testing.T) (*AnnotationService, func()) {
	cfg, log, cleanup := setupTestEnv(t)
	svc := NewAnnotationService(cfg, log)
	return svc, func() {
		svc.Close()
		cleanup()
	}
}

// waitForFile polls until the user's data file appears or the deadline
// passes; the debounce in tests is 20ms.
func waitForFile(t *testing.T, path string) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("file %s never appeared", path)
}

func TestGetRecord_DefaultsWhenAbsent(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	rec := svc.GetRecord("alice", "never-touched.jpg")
	assert.Equal(t, 0, rec.Likes)
	assert.False(t, rec.Bookmarked)
	assert.Empty(t, rec.Tags)
	assert.Equal(t, "", rec.Description)
	assert.Equal(t, 0, rec.ViewCount)
}

func TestLike_ClampedAtMax(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	var rec *models.AnnotationRecord
	for i := 0; i < models.MaxLikes; i++ {
		rec = svc.Like("alice", "a.jpg")
	}
	assert.Equal(t, models.MaxLikes, rec.Likes)

	rec = svc.Like("alice", "a.jpg")
	assert.Equal(t, models.MaxLikes, rec.Likes, "extra likes past the cap are dropped")
}

func TestUnlike_ClampedAtZero(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	rec := svc.Unlike("alice", "a.jpg")
	assert.Equal(t, 0, rec.Likes)

	svc.Like("alice", "a.jpg")
	svc.Unlike("alice", "a.jpg")
	rec = svc.Unlike("alice", "a.jpg")
	assert.Equal(t, 0, rec.Likes)
}

func TestToggleBookmark_ReturnsToOriginal(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	rec := svc.ToggleBookmark("alice", "a.jpg")
	assert.True(t, rec.Bookmarked)

	rec = svc.ToggleBookmark("alice", "a.jpg")
	assert.False(t, rec.Bookmarked)
}

func TestSetTags_RecomputesGlobalTagSet(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.SetTags("alice", "f1.jpg", []string{"a", "b"})
	svc.SetTags("alice", "f2.jpg", []string{"b", "c"})

	tags := svc.TagsWithUsage("alice")
	names := []string{}
	for _, tag := range tags {
		names = append(names, tag.Name)
		assert.Greater(t, tag.LastUsed, int64(0))
	}
	assert.Equal(t, []string{"a", "b", "c"}, names, "global tags are sorted")

	// Dropping "a" from its only image removes it globally and from the
	// usage map.
	svc.SetTags("alice", "f1.jpg", []string{"b"})

	tags = svc.TagsWithUsage("alice")
	names = names[:0]
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"b", "c"}, names)

	counts := map[string]int{}
	for _, tag := range tags {
		counts[tag.Name] = tag.Count
	}
	assert.Equal(t, map[string]int{"b": 2, "c": 1}, counts)
}

func TestSetTags_TouchRefreshesRecency(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.SetTags("alice", "f1.jpg", []string{"a"})
	first := svc.TagsWithUsage("alice")[0].LastUsed

	time.Sleep(5 * time.Millisecond)
	svc.SetTags("alice", "f2.jpg", []string{"a"})
	second := svc.TagsWithUsage("alice")[0].LastUsed

	assert.GreaterOrEqual(t, second, first, "re-saving a tag refreshes its timestamp")
}

func TestSetDescription_Verbatim(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	rec := svc.SetDescription("alice", "a.jpg", "  spaces kept  ")
	assert.Equal(t, "  spaces kept  ", rec.Description)

	rec = svc.SetDescription("alice", "a.jpg", "")
	assert.Equal(t, "", rec.Description)
}

func TestBatchIncrementViews_CountsDuplicates(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.BatchIncrementViews("alice", []string{"a.jpg", "a.jpg", "b.jpg"})

	assert.Equal(t, 2, svc.GetRecord("alice", "a.jpg").ViewCount)
	assert.Equal(t, 1, svc.GetRecord("alice", "b.jpg").ViewCount)
}

func TestReadYourWrites_BeforeDebounceFires(t *testing.T) {
	cfg, log, cleanup := setupTestEnv(t)
	defer cleanup()
	cfg.Storage.WriteDebounceMs = 60000 // never fires during the test
	svc := NewAnnotationService(cfg, log)
	defer svc.Close()

	svc.Like("alice", "a.jpg")

	assert.Equal(t, 1, svc.GetRecord("alice", "a.jpg").Likes)
	_, err := os.Stat(svc.pathManager.GetUserDataPath("alice"))
	assert.True(t, os.IsNotExist(err), "nothing on disk before the debounce fires")
}

func TestDebounce_CollapsesBurstIntoOneWrite(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		svc.Like("alice", "a.jpg")
	}
	svc.ToggleBookmark("alice", "a.jpg")

	path := svc.pathManager.GetUserDataPath("alice")
	waitForFile(t, path)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	ud := &models.UserData{}
	assert.NoError(t, json.Unmarshal(data, ud))
	assert.Equal(t, "alice", ud.UserID)
	assert.Equal(t, 5, ud.Images["a.jpg"].Likes)
	assert.True(t, ud.Images["a.jpg"].Bookmarked)

	// No temp sibling left behind by the atomic write.
	_, err = os.Stat(svc.pathManager.GetUserDataTempPath("alice"))
	assert.True(t, os.IsNotExist(err))
}

func TestFlush_WritesSynchronously(t *testing.T) {
	cfg, log, cleanup := setupTestEnv(t)
	defer cleanup()
	cfg.Storage.WriteDebounceMs = 60000
	svc := NewAnnotationService(cfg, log)
	defer svc.Close()

	svc.SetDescription("alice", "a.jpg", "flushed")
	svc.Flush("alice")

	data, err := os.ReadFile(svc.pathManager.GetUserDataPath("alice"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "flushed")
}

func TestClose_FlushesPendingState(t *testing.T) {
	cfg, log, cleanup := setupTestEnv(t)
	defer cleanup()
	cfg.Storage.WriteDebounceMs = 60000
	svc := NewAnnotationService(cfg, log)

	svc.Like("alice", "a.jpg")
	svc.Close()

	data, err := os.ReadFile(svc.pathManager.GetUserDataPath("alice"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "a.jpg")
}

func TestLoad_CorruptFileDegradesToEmpty(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	path := svc.pathManager.GetUserDataPath("alice")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	rec := svc.GetRecord("alice", "a.jpg")
	assert.Equal(t, 0, rec.Likes, "corrupt file yields empty user data, not an error")

	// Mutations still work and eventually overwrite the corrupt file.
	svc.Like("alice", "a.jpg")
	svc.Flush("alice")

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	ud := &models.UserData{}
	assert.NoError(t, json.Unmarshal(data, ud))
	assert.Equal(t, 1, ud.Images["a.jpg"].Likes)
}

func TestLoad_ReusesPersistedState(t *testing.T) {
	cfg, log, cleanup := setupTestEnv(t)
	defer cleanup()

	svc := NewAnnotationService(cfg, log)
	svc.Like("alice", "a.jpg")
	svc.SetTags("alice", "a.jpg", []string{"keep"})
	svc.Close()

	fresh := NewAnnotationService(cfg, log)
	defer fresh.Close()

	rec := fresh.GetRecord("alice", "a.jpg")
	assert.Equal(t, 1, rec.Likes)
	assert.Equal(t, []string{"keep"}, rec.Tags)
}

func TestByLikes_SortedAndLimited(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		svc.Like("alice", "top.jpg")
	}
	svc.Like("alice", "mid.jpg")
	svc.Like("alice", "mid.jpg")
	svc.Like("alice", "low.jpg")
	svc.BatchIncrementViews("alice", []string{"unliked.jpg"})

	images := svc.ByLikes("alice", 2)
	assert.Len(t, images, 2)
	assert.Equal(t, "top.jpg", images[0].Filename)
	assert.Equal(t, "mid.jpg", images[1].Filename)
}

func TestByViews_ExcludesUnviewed(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.BatchIncrementViews("alice", []string{"a.jpg", "a.jpg", "b.jpg"})
	svc.Like("alice", "unviewed.jpg")

	images := svc.ByViews("alice", 50)
	assert.Len(t, images, 2)
	assert.Equal(t, "a.jpg", images[0].Filename)
	assert.Equal(t, 2, images[0].ViewCount)
}

func TestBookmarkedAndTaggedListings(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.ToggleBookmark("alice", "marked.jpg")
	svc.SetTags("alice", "t1.jpg", []string{"trip"})
	svc.SetTags("alice", "t2.jpg", []string{"trip", "family"})

	bookmarked := svc.Bookmarked("alice")
	assert.Len(t, bookmarked, 1)
	assert.Equal(t, "marked.jpg", bookmarked[0].Filename)

	byTag := svc.ByTag("alice", "trip")
	assert.Len(t, byTag, 2)

	assert.Len(t, svc.ByTag("alice", "nope"), 0)
	assert.Len(t, svc.AllTagged("alice"), 2)
}

func TestSummary_Aggregates(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.Like("alice", "a.jpg")
	svc.Like("alice", "a.jpg")
	svc.Like("alice", "b.jpg")
	svc.ToggleBookmark("alice", "b.jpg")
	svc.SetTags("alice", "c.jpg", []string{"x", "y"})
	svc.BatchIncrementViews("alice", []string{"a.jpg", "b.jpg", "b.jpg"})

	stats := svc.Summary("alice")
	assert.Equal(t, 3, stats.TotalViews)
	assert.Equal(t, 3, stats.TotalLikes)
	assert.Equal(t, 1, stats.TotalBookmarks)
	assert.Equal(t, 1, stats.TaggedImages)
	assert.Equal(t, 2, stats.TotalTags)
}

func TestUsersAreIsolated(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.Like("alice", "a.jpg")

	assert.Equal(t, 0, svc.GetRecord("bob", "a.jpg").Likes)
}

func TestRecords_SnapshotOmitsUntouched(t *testing.T) {
	svc, cleanup := newAnnotationEnv(t)
	defer cleanup()

	svc.Like("alice", "a.jpg")

	records := svc.Records("alice")
	assert.Contains(t, records, "a.jpg")
	assert.NotContains(t, records, "b.jpg")

	// The snapshot is detached from live state.
	records["a.jpg"].Likes = 99
	assert.Equal(t, 1, svc.GetRecord("alice", "a.jpg").Likes)
}
