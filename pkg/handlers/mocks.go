// pkg/handlers/mocks.go
package handlers

import (
	"album-shuffle/pkg/models"
	utils "album-shuffle/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) Scan() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockFeedService) ShuffledOrder(seed string) []string {
	args := m.Called(seed)
	return args.Get(0).([]string)
}

func (m *MockFeedService) Page(seed string, offset, limit int, userID string, filter models.FeedFilter) *models.FeedPage {
	args := m.Called(seed, offset, limit, userID, filter)
	return args.Get(0).(*models.FeedPage)
}

func (m *MockFeedService) Refresh() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockFeedService) GetPathManager() *utils.PathManager {
	args := m.Called()
	return args.Get(0).(*utils.PathManager)
}

type MockAnnotationService struct {
	mock.Mock
}

func (m *MockAnnotationService) GetRecord(userID, filename string) *models.AnnotationRecord {
	args := m.Called(userID, filename)
	return args.Get(0).(*models.AnnotationRecord)
}

func (m *MockAnnotationService) Records(userID string) map[string]*models.AnnotationRecord {
	args := m.Called(userID)
	return args.Get(0).(map[string]*models.AnnotationRecord)
}

func (m *MockAnnotationService) Like(userID, filename string) *models.AnnotationRecord {
	args := m.Called(userID, filename)
	return args.Get(0).(*models.AnnotationRecord)
}

func (m *MockAnnotationService) Unlike(userID, filename string) *models.AnnotationRecord {
	args := m.Called(userID, filename)
	return args.Get(0).(*models.AnnotationRecord)
}

func (m *MockAnnotationService) ToggleBookmark(userID, filename string) *models.AnnotationRecord {
	args := m.Called(userID, filename)
	return args.Get(0).(*models.AnnotationRecord)
}

func (m *MockAnnotationService) SetTags(userID, filename string, tags []string) *models.AnnotationRecord {
	args := m.Called(userID, filename, tags)
	return args.Get(0).(*models.AnnotationRecord)
}

func (m *MockAnnotationService) SetDescription(userID, filename, description string) *models.AnnotationRecord {
	args := m.Called(userID, filename, description)
	return args.Get(0).(*models.AnnotationRecord)
}

func (m *MockAnnotationService) BatchIncrementViews(userID string, filenames []string) {
	m.Called(userID, filenames)
}

func (m *MockAnnotationService) TagsWithUsage(userID string) []models.TagInfo {
	args := m.Called(userID)
	return args.Get(0).([]models.TagInfo)
}

func (m *MockAnnotationService) ByLikes(userID string, limit int) []models.AnnotatedImage {
	args := m.Called(userID, limit)
	return args.Get(0).([]models.AnnotatedImage)
}

func (m *MockAnnotationService) ByViews(userID string, limit int) []models.AnnotatedImage {
	args := m.Called(userID, limit)
	return args.Get(0).([]models.AnnotatedImage)
}

func (m *MockAnnotationService) Bookmarked(userID string) []models.AnnotatedImage {
	args := m.Called(userID)
	return args.Get(0).([]models.AnnotatedImage)
}

func (m *MockAnnotationService) ByTag(userID, tag string) []models.AnnotatedImage {
	args := m.Called(userID, tag)
	return args.Get(0).([]models.AnnotatedImage)
}

func (m *MockAnnotationService) AllTagged(userID string) []models.AnnotatedImage {
	args := m.Called(userID)
	return args.Get(0).([]models.AnnotatedImage)
}

func (m *MockAnnotationService) Summary(userID string) *models.UserStats {
	args := m.Called(userID)
	return args.Get(0).(*models.UserStats)
}

func (m *MockAnnotationService) Flush(userID string) {
	m.Called(userID)
}

func (m *MockAnnotationService) Close() {
	m.Called()
}

// MockBackupService implements BackupServiceInterface for testing
type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) BackupData() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockBackupService) RestoreData() error {
	args := m.Called()
	return args.Error(0)
}
