package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/vmihailenco/msgpack/v5"

	"alignby/internal/align"
	"alignby/internal/project"
)

// Current schema version - increment when CachePayload format or engine
// output changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache remembers content digests that are known to be aligned already,
// so repeated runs skip the engine for untouched files.
// Thread-safe for concurrent access. Only the process holding the directory
// lock writes; others get a read-only view.
type DiskCache struct {
	mu       sync.RWMutex
	dir      string
	lock     *flock.Flock
	readOnly bool
}

// CachePayload is stored per content digest.
type CachePayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path     string // last path seen with this content, informational
	Lines    uint32
	Canceled bool // content carries align_by cancel_file
	StoredAt int64
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDiskCache opens (creating if needed) a cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(dir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock cache %s: %w", dir, err)
	}
	return &DiskCache{dir: dir, lock: lock, readOnly: !locked}, nil
}

// ReadOnly reports whether another process holds the cache lock.
func (c *DiskCache) ReadOnly() bool {
	return c == nil || c.readOnly
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Close releases the directory lock.
func (c *DiskCache) Close() error {
	if c == nil || c.lock == nil || c.readOnly {
		return nil
	}
	return c.lock.Unlock()
}

// CacheKey binds a content digest to the engine options that judged it.
func CacheKey(content project.Digest, opts align.Options) project.Digest {
	fingerprint := fmt.Sprintf("schema=%d collapse=%t tab=%d", diskCacheSchemaVersion, opts.CollapseSpaces, opts.TabWidth)
	return project.Combine(content, project.DigestOf([]byte(fingerprint)))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не раздувать одну директорию
	return filepath.Join(c.dir, "aligned", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *CachePayload) (err error) {
	if c.ReadOnly() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if payload.StoredAt == 0 {
		payload.StoredAt = time.Now().Unix()
	}
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache.
// Entries written by an older schema are reported as misses.
func (c *DiskCache) Get(key project.Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c.ReadOnly() {
		return fmt.Errorf("cache %s is locked by another process", c.Dir())
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	entries := filepath.Join(c.dir, "aligned")
	old := entries + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(entries, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
