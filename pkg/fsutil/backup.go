package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a template's path to name its backup.
const BackupSuffix = ".twigcs.bak"

// BackupPath returns the sidecar backup path of path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies content to the sidecar backup of path unless a backup
// already exists, so repeated fix runs keep the oldest original. It reports
// whether a backup was written.
func CreateBackup(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	backup := BackupPath(path)

	if _, err := os.Stat(backup); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat backup %s: %w", backup, err)
	}

	if err := WriteAtomic(ctx, backup, content, mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}
