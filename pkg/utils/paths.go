// pkg/utils/paths.go
package utils

import (
	"os"
	"path/filepath"
)

// PathManager resolves all filesystem locations used by the services:
// the images directory that gets scanned and the data directory
// holding one JSON file per user.
type PathManager struct {
	imagesDir string
	dataDir   string
	log       *Logger
}

func NewPathManager(imagesDir, dataDir string, log *Logger) *PathManager {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory %s: %v", dataDir, err)
	}

	return &PathManager{
		imagesDir: imagesDir,
		dataDir:   dataDir,
		log:       log,
	}
}

func (pm *PathManager) GetImagesDir() string {
	return pm.imagesDir
}

func (pm *PathManager) GetImagePath(filename string) string {
	return filepath.Join(pm.imagesDir, filename)
}

func (pm *PathManager) GetDataDir() string {
	return pm.dataDir
}

// GetUserDataPath returns the JSON file holding one user's annotations.
func (pm *PathManager) GetUserDataPath(userID string) string {
	return filepath.Join(pm.dataDir, userID+".json")
}

// GetUserDataTempPath returns the sibling temp path used for atomic writes.
func (pm *PathManager) GetUserDataTempPath(userID string) string {
	return filepath.Join(pm.dataDir, userID+".json.tmp")
}
