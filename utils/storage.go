package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sutd-rms/secret-sauce/config"
)

// SaveUpload persists an uploaded file under the media directory and
// returns its path relative to the media root. The stored name carries a
// random prefix so repeated uploads never collide.
func SaveUpload(subdir, filename string, data []byte) (string, error) {
	rel := filepath.Join(subdir, uuid.NewString()+"_"+filepath.Base(filename))
	full := MediaPath(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to persist upload: %w", err)
	}
	return rel, nil
}

// MediaPath resolves a media-relative path to a filesystem path
func MediaPath(rel string) string {
	return filepath.Join(config.MediaDir(), rel)
}

// ReadMedia reads a stored file back from the media directory
func ReadMedia(rel string) ([]byte, error) {
	return os.ReadFile(MediaPath(rel))
}
