package evalsrvc

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/olimps/backend/task"
)

// taskDir resolves the on-disk directory of a task, extracting the
// contest archive first if this host has not seen it yet.
func (s *Srvc) taskDir(ctx context.Context, contestShortID string, taskShortID string) (string, error) {
	archiveID, err := s.contests.ArchiveID(ctx, contestShortID)
	if err != nil {
		return "", err
	}
	contestDir, err := s.archives.Extract(ctx, archiveID)
	if err != nil {
		return "", fmt.Errorf("failed to extract contest archive: %w", err)
	}
	return filepath.Join(contestDir, taskShortID), nil
}

// Material loads the material of a task within a contest from its
// extracted archive.
func (s *Srvc) Material(ctx context.Context, contestShortID string, taskShortID string) (*task.Material, error) {
	dir, err := s.taskDir(ctx, contestShortID, taskShortID)
	if err != nil {
		return nil, err
	}
	material, err := task.LoadMaterial(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load task material: %w", err)
	}
	return material, nil
}
