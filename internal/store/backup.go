package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DefaultBackupRetentionDays is how long timestamped backups are kept.
const DefaultBackupRetentionDays = 7

// Backup copies the current listings file to a timestamped file under
// backups/ and prunes backups past the retention window. Returns the backup
// path, or "" when there is nothing to back up.
func (s *Store) Backup(keepDays int) (string, error) {
	b, err := os.ReadFile(s.listingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] no listings file to back up")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read listings for backup: %w", err)
	}

	name := fmt.Sprintf("listings_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.backupsDir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	log.Printf("[INFO] created backup %s", name)

	s.pruneBackups(keepDays)
	return path, nil
}

func (s *Store) pruneBackups(keepDays int) {
	if keepDays <= 0 {
		keepDays = DefaultBackupRetentionDays
	}
	cutoff := time.Now().Add(-time.Duration(keepDays) * 24 * time.Hour)

	entries, err := os.ReadDir(s.backupsDir)
	if err != nil {
		log.Printf("[WARN] pruning backups: %v", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.backupsDir, e.Name())); err != nil {
			log.Printf("[WARN] removing old backup %s: %v", e.Name(), err)
			continue
		}
		log.Printf("[INFO] deleted old backup %s", e.Name())
	}
}
