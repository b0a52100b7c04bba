// Package store provides a thin bbolt wrapper for objinv's local cache.
//
// Design philosophy: the store is an intentional data accumulator, not a
// transparent HTTP cache. Inventories are written explicitly by commands
// that pass --store and can be read back with GetInventory; no command
// consults the store when resolving a source. No TTL, no auto-invalidation
// — you own your data.
//
// Buckets:
//
//	inventories — cached Inventory bodies keyed by their source (URL or path)
//	snapshots   — saved command lines for reproducible workflows
//	_meta       — internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/oscargus/objinv/objinv"
)

const schemaVersion = 1

var (
	bucketInventories = []byte("inventories")
	bucketSnapshots   = []byte("snapshots")
	bucketInternal    = []byte("_meta")
)

// AllBuckets lists every top-level bucket for stats and clear operations.
var AllBuckets = []string{"inventories", "snapshots"}

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path. Parent directories
// are created automatically. Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketInventories, bucketSnapshots, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			return meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339)))
		}
		return nil
	})
}

// ─── Inventories ──────────────────────────────────────────────────────────────

// storedInventory is the on-disk envelope for a cached inventory.
type storedInventory struct {
	Project    string                 `json:"project"`
	Version    string                 `json:"version"`
	SourceType string                 `json:"source_type"`
	FetchedAt  time.Time              `json:"fetched_at"`
	Objects    []map[string]string    `json:"objects"`
}

func toStored(inv *objinv.Inventory) storedInventory {
	objs := make([]map[string]string, len(inv.Objects))
	for i, o := range inv.Objects {
		objs[i] = map[string]string{
			"name": o.Name, "domain": o.Domain, "role": o.Role,
			"priority": o.Priority, "uri": o.URI, "dispname": o.Dispname,
		}
	}
	return storedInventory{
		Project:    inv.Project,
		Version:    inv.Version,
		SourceType: inv.SourceType.String(),
		FetchedAt:  time.Now().UTC(),
		Objects:    objs,
	}
}

func fromStored(s storedInventory) (*objinv.Inventory, error) {
	inv := objinv.NewManualInventory()
	inv.Project, inv.Version = s.Project, s.Version
	for _, fields := range s.Objects {
		obj, err := objinv.NewDataObjStr(fields)
		if err != nil {
			return nil, err
		}
		inv.Objects = append(inv.Objects, obj)
	}
	return inv, nil
}

// PutInventory caches inv under key (typically the URL or file path it was
// read from).
func (s *Store) PutInventory(key string, inv *objinv.Inventory) error {
	data, err := json.Marshal(toStored(inv))
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInventories).Put([]byte(key), data)
	})
}

// GetInventory retrieves a cached inventory by key. Returns (inv, true, nil)
// if found, (nil, false, nil) if not found.
func (s *Store) GetInventory(key string) (*objinv.Inventory, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketInventories).Get([]byte(key))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	var stored storedInventory
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("decoding cached inventory %s: %w", key, err)
	}
	inv, err := fromStored(stored)
	if err != nil {
		return nil, false, err
	}
	return inv, true, nil
}

// ListInventoryKeys returns all cache keys currently stored.
func (s *Store) ListInventoryKeys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInventories).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

// Snapshot represents a saved command for reproducible workflows.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CommandLine string    `json:"command_line"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Store) PutSnapshot(snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte("snap:"+snap.ID), b)
	})
}

func (s *Store) GetSnapshot(id string) (Snapshot, bool, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSnapshots).Get([]byte("snap:" + id))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &snap)
	})
	if err != nil {
		return snap, false, err
	}
	return snap, snap.ID != "", nil
}

func (s *Store) ListSnapshots() ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			snaps = append(snaps, snap)
			return nil
		})
	})
	return snaps, err
}

func (s *Store) DeleteSnapshot(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete([]byte("snap:" + id))
	})
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	buckets := map[string][]byte{
		"inventories": bucketInventories,
		"snapshots":   bucketSnapshots,
	}

	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for name, bname := range buckets {
			b := tx.Bucket(bname)
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket by drop-and-recreate,
// which is more efficient than iterating keys and returns pages to bbolt's
// internal freelist. The database file does not shrink automatically; use
// Compact to reclaim disk space.
func (s *Store) ClearBucket(name string) error {
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}

// Compact rewrites the entire database to a new file, reclaiming disk space
// freed by prior deletions. The operation is safe: all live data is copied
// to a temporary file first, then the original is atomically replaced.
func (s *Store) Compact() (beforeBytes, afterBytes int64, err error) {
	path := s.db.Path()
	tmpPath := path + ".compact.tmp"

	if fi, err2 := os.Stat(path); err2 == nil {
		beforeBytes = fi.Size()
	}

	dst, err := bolt.Open(tmpPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return beforeBytes, 0, fmt.Errorf("opening temp db for compaction: %w", err)
	}

	if err = bolt.Compact(dst, s.db, 0); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return beforeBytes, 0, fmt.Errorf("compacting db: %w", err)
	}
	dst.Close()

	if err = s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return beforeBytes, 0, fmt.Errorf("closing db before compaction swap: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		s.db, _ = bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
		return beforeBytes, 0, fmt.Errorf("replacing db with compacted copy: %w", err)
	}

	s.db, err = bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return beforeBytes, 0, fmt.Errorf("reopening compacted db: %w", err)
	}

	if fi, err2 := os.Stat(path); err2 == nil {
		afterBytes = fi.Size()
	}

	return beforeBytes, afterBytes, nil
}
