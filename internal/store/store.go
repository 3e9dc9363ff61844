// Package store persists the listing set and API quota counters as JSON
// files under a data directory, with timestamped backups.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yourorg/mls-monitor/internal/listing"
)

const (
	listingsFileName = "listings.json"
	quotaFileName    = "api_quotas.json"
	backupsDirName   = "backups"
)

// Store owns the on-disk state. Quota updates are read-modify-write and go
// through a single mutex.
type Store struct {
	dataDir      string
	backupsDir   string
	listingsPath string
	quotaPath    string

	quotaMu sync.Mutex
}

// Open prepares the data directory and returns a Store.
func Open(dataDir string) (*Store, error) {
	s := &Store{
		dataDir:      dataDir,
		backupsDir:   filepath.Join(dataDir, backupsDirName),
		listingsPath: filepath.Join(dataDir, listingsFileName),
		quotaPath:    filepath.Join(dataDir, quotaFileName),
	}
	if err := os.MkdirAll(s.backupsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return s, nil
}

// listingsFile is the persisted envelope around the listing map.
type listingsFile struct {
	LastCheck     time.Time                  `json:"last_check"`
	TotalListings int                        `json:"total_listings"`
	Listings      map[string]listing.Listing `json:"listings"`
}

// LoadListings reads the persisted listing set. An absent file is a fresh
// start and yields an empty map; a present but unreadable or unparsable file
// is an error, never silently treated as empty. Individually malformed
// entries are skipped and logged.
func (s *Store) LoadListings() (map[string]listing.Listing, error) {
	b, err := os.ReadFile(s.listingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[INFO] no existing listings file, starting fresh")
		return map[string]listing.Listing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read listings file: %w", err)
	}

	var f listingsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse listings file: %w", err)
	}

	out := make(map[string]listing.Listing, len(f.Listings))
	for id, l := range f.Listings {
		if l.ID == "" {
			l.ID = id
		}
		if err := l.Validate(); err != nil {
			log.Printf("[WARN] skipping stored listing %s: %v", id, err)
			continue
		}
		out[id] = l
	}
	log.Printf("[INFO] loaded %d listings from storage", len(out))
	return out, nil
}

// SaveListings writes the full listing set atomically: the JSON is written
// to a temporary file and renamed over the target, so a reader or a crash
// never observes a partial file.
func (s *Store) SaveListings(listings map[string]listing.Listing) error {
	f := listingsFile{
		LastCheck:     time.Now().UTC(),
		TotalListings: len(listings),
		Listings:      listings,
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal listings: %w", err)
	}
	if err := writeFileAtomic(s.listingsPath, b); err != nil {
		return fmt.Errorf("write listings file: %w", err)
	}
	log.Printf("[INFO] saved %d listings to storage", len(listings))
	return nil
}

func writeFileAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
