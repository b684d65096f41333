// Package store provides a SQLite-backed cache of structure scans, so that
// listing the zones of a large log does not rescan it every time.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/actlog/actlog-go/pkg/actlog"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache stores structure indexes keyed by file identity.
type Cache struct {
	db *sql.DB
}

// Key identifies one scan of one file. A cached index is only returned when
// every field matches.
type Key struct {
	Path    string
	MtimeNs int64
	Size    int64

	// Fingerprint describes the scan settings that change the index, such
	// as the pet list.
	Fingerprint string
}

// KeyFor builds a Key from a file's stat result.
func KeyFor(path string, info os.FileInfo, fingerprint string) Key {
	return Key{
		Path:        path,
		MtimeNs:     info.ModTime().UnixNano(),
		Size:        info.Size(),
		Fingerprint: fingerprint,
	}
}

// Entry summarizes one cached index.
type Entry struct {
	Path       string
	Size       int64
	Zones      int
	Encounters int
	IndexedAt  time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached zones for key. The boolean is false on a miss,
// including when the file changed since it was indexed.
func (c *Cache) Lookup(key Key) ([]actlog.ZoneSession, bool, error) {
	var mtime, size int64
	var fingerprint, data string
	err := c.db.QueryRow(`SELECT mtime_ns, size_bytes, fingerprint, zones_json
		FROM structure_index WHERE file_path = ?`, key.Path).
		Scan(&mtime, &size, &fingerprint, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if mtime != key.MtimeNs || size != key.Size || fingerprint != key.Fingerprint {
		return nil, false, nil
	}

	var zones []actlog.ZoneSession
	if err := json.Unmarshal([]byte(data), &zones); err != nil {
		return nil, false, fmt.Errorf("decoding cached index: %w", err)
	}
	return zones, true, nil
}

// Save stores zones for key, replacing any earlier index of the same path.
func (c *Cache) Save(key Key, zones []actlog.ZoneSession) error {
	data, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	encounters := 0
	for _, z := range zones {
		encounters += len(z.Encounters)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = c.db.Exec(`INSERT OR REPLACE INTO structure_index
		(file_path, mtime_ns, size_bytes, fingerprint, zone_count, encounter_count, zones_json, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key.Path, key.MtimeNs, key.Size, key.Fingerprint, len(zones), encounters, string(data), now,
	)
	return err
}

// Entries lists cached indexes, most recently indexed first.
func (c *Cache) Entries() ([]Entry, error) {
	rows, err := c.db.Query(`SELECT file_path, size_bytes, zone_count, encounter_count, indexed_at
		FROM structure_index ORDER BY indexed_at DESC, file_path`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var indexedAt string
		if err := rows.Scan(&e.Path, &e.Size, &e.Zones, &e.Encounters, &indexedAt); err != nil {
			return nil, err
		}
		e.IndexedAt, _ = time.Parse(time.RFC3339, indexedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune drops entries whose file no longer exists and returns how many were
// removed.
func (c *Cache) Prune() (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if _, err := os.Stat(e.Path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if _, err := c.db.Exec("DELETE FROM structure_index WHERE file_path = ?", e.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM structure_index")
	return err
}
