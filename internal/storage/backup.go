package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PruneBackups removes the oldest backup files in dir beyond keep and
// returns how many were removed. Backup files are recognized by the name
// pattern Backup writes; anything else in the directory is left alone.
func PruneBackups(dir string, keep int) (int, error) {
	if keep <= 0 {
		keep = 1
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "personahub-") && strings.HasSuffix(name, ".sqlite") {
			backups = append(backups, name)
		}
	}
	if len(backups) <= keep {
		return 0, nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(backups)
	removed := 0
	for _, name := range backups[:len(backups)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
