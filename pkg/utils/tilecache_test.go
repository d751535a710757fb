package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestTileCache(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tilecache-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Logf("Error removing temp dir: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "tiles.db")
	cache, err := OpenTileCache(dbPath, 0)
	if err != nil {
		t.Fatalf("Failed to open TileCache: %v", err)
	}

	testTileCacheMiss(t, cache)
	testTileCachePutGet(t, cache)
	testTileCacheDelete(t, cache)

	if err := cache.Close(); err != nil {
		t.Fatalf("Failed to close cache: %v", err)
	}

	testTileCachePersistence(t, dbPath)
}

func testTileCacheMiss(t *testing.T, cache *TileCache) {
	val, ok, err := cache.Get("https://a.example/0/0/0.png")
	if err != nil {
		t.Errorf("Get failed: %v", err)
	}
	if ok || val != nil {
		t.Errorf("Expected miss, got (%q, %v)", val, ok)
	}
}

func testTileCachePutGet(t *testing.T, cache *TileCache) {
	key := "https://a.example/12/3230/2034.png"
	if err := cache.Put(key, []byte("tile-bytes")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	val, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(val, []byte("tile-bytes")) {
		t.Errorf("Expected tile-bytes, got %q", val)
	}
	n, err := cache.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 entry, got %d", n)
	}
}

func testTileCacheDelete(t *testing.T, cache *TileCache) {
	key := "https://b.example/1/1/1.png"
	if err := cache.Put(key, []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Errorf("Expected %s to be gone after Delete", key)
	}
}

func testTileCachePersistence(t *testing.T, dbPath string) {
	cache, err := OpenTileCache(dbPath, 0)
	if err != nil {
		t.Fatalf("Failed to reopen TileCache: %v", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			t.Logf("Error closing cache: %v", err)
		}
	}()

	val, ok, err := cache.Get("https://a.example/12/3230/2034.png")
	if err != nil || !ok {
		t.Fatalf("Expected persisted entry, ok=%v err=%v", ok, err)
	}
	if string(val) != "tile-bytes" {
		t.Errorf("Expected tile-bytes after reopen, got %q", val)
	}
}
