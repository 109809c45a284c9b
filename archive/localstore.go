package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore serves pre-extracted archive directories from a root
// directory. Used in development and tests, where archives are already
// on disk.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Extract(ctx context.Context, archiveID string) (string, error) {
	dir := filepath.Join(s.root, archiveID)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("archive %s not found under %s: %w", archiveID, s.root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("archive path %s is not a directory", dir)
	}
	return dir, nil
}
