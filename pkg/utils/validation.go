package utils

import (
	"fmt"
	"regexp"
)

var (
	// Image filenames: strict allow-list, no path separators so a
	// request can never escape the images directory.
	filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

	// User ids: lowercase alphanumeric with dashes/underscores, as
	// written in the config file.
	userIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
)

// ValidateFilename validates an image filename against the allow-list.
// Returns error if invalid, nil if valid.
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if !filenamePattern.MatchString(filename) {
		return fmt.Errorf("invalid filename: only alphanumerics, dots, dashes and underscores allowed")
	}
	return nil
}

// ValidateUserID validates a user id format.
// Returns error if invalid, nil if valid.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user id: must be lowercase alphanumeric with optional dashes or underscores")
	}
	return nil
}
