package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), CacheDirName)
	cache := NewCacheDir(root)

	if err := cache.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root not created: %v", err)
	}

	dir, err := cache.Subdir("bank")
	if err != nil {
		t.Fatalf("Subdir() error = %v", err)
	}
	stale := filepath.Join(dir, "old.idsp")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A second request must hand back an empty directory
	dir2, err := cache.Subdir("bank")
	if err != nil {
		t.Fatalf("Subdir() error = %v", err)
	}
	if dir2 != dir {
		t.Errorf("Subdir() = %s, expected %s", dir2, dir)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived Subdir()")
	}

	if err := cache.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("root should be removed")
	}
}

func TestCacheDir_SubdirStaysInside(t *testing.T) {
	cache := NewCacheDir(t.TempDir())

	dir, err := cache.Subdir("../escape")
	if err != nil {
		t.Fatalf("Subdir() error = %v", err)
	}
	if filepath.Dir(dir) != cache.Root() {
		t.Errorf("Subdir() escaped the cache: %s", dir)
	}
}
