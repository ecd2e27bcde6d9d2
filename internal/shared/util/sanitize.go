package util

import (
	"errors"
	"strings"
)

// SanitizeFileName cleans an uploaded deck file name before it becomes part
// of a storage key: path separators are replaced and traversal patterns are
// rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
