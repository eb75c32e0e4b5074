package driver

import (
	"context"
	"path/filepath"
	"testing"

	"alignby/internal/align"
	"alignby/internal/project"
)

func openTestCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDiskCachePutGet(t *testing.T) {
	c := openTestCache(t)
	if c.ReadOnly() {
		t.Fatalf("first opener must own the lock")
	}
	key := CacheKey(project.DigestOf([]byte("content")), align.Options{})

	var got CachePayload
	if hit, err := c.Get(key, &got); err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Put(key, &CachePayload{Path: "a.go", Lines: 3}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	hit, err := c.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if got.Path != "a.go" || got.Lines != 3 || got.Schema != diskCacheSchemaVersion || got.StoredAt == 0 {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll returned error: %v", err)
	}
	if hit, _ := c.Get(key, &got); hit {
		t.Fatalf("expected miss after DropAll")
	}
}

func TestDiskCacheSecondOpenerIsReadOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	first, err := OpenDiskCache(dir)
	if err != nil {
		t.Fatalf("OpenDiskCache returned error: %v", err)
	}
	defer first.Close()

	second, err := OpenDiskCache(dir)
	if err != nil {
		t.Fatalf("OpenDiskCache returned error: %v", err)
	}
	defer second.Close()
	if !second.ReadOnly() {
		t.Fatalf("second opener must be read-only")
	}
	key := CacheKey(project.DigestOf([]byte("x")), align.Options{})
	if err := second.Put(key, &CachePayload{}); err != nil {
		t.Fatalf("read-only Put must be a silent no-op, got %v", err)
	}
	var got CachePayload
	if hit, _ := first.Get(key, &got); hit {
		t.Fatalf("read-only cache must not write entries")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	d := project.DigestOf([]byte("same"))
	if CacheKey(d, align.Options{}) == CacheKey(d, align.Options{CollapseSpaces: true}) {
		t.Fatalf("collapse option must change the key")
	}
	if CacheKey(d, align.Options{TabWidth: 4}) == CacheKey(d, align.Options{TabWidth: 8}) {
		t.Fatalf("tab width must change the key")
	}
}

func TestAlignFileUsesCache(t *testing.T) {
	c := openTestCache(t)
	path := filepath.Join(t.TempDir(), "a.go")
	writeFile(t, path, unaligned)
	opts := Options{Cache: c}

	first := AlignFile(context.Background(), path, opts)
	if first.Status != StatusAligned || first.Cached {
		t.Fatalf("unexpected first result: %+v", first)
	}
	second := AlignFile(context.Background(), path, opts)
	if second.Status != StatusUnchanged || !second.Cached {
		t.Fatalf("expected cached unchanged result, got %+v", second)
	}
	if second.Lines != 3 {
		t.Fatalf("expected 3 lines from cache, got %d", second.Lines)
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var c *DiskCache
	if !c.ReadOnly() || c.Dir() != "" || c.Close() != nil {
		t.Fatalf("nil cache must be inert")
	}
	var got CachePayload
	if hit, err := c.Get(project.Digest{}, &got); hit || err != nil {
		t.Fatalf("nil cache Get must miss")
	}
}
