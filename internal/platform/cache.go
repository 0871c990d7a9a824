package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CacheDirName is the directory under the user cache dir used for scratch files
const CacheDirName = "simple-nus3audio-gui"

// CacheDir is the scratch area where payloads are staged for external tools
type CacheDir struct {
	root string
	mu   sync.Mutex
}

// NewCacheDir uses root as the scratch area
func NewCacheDir(root string) *CacheDir {
	return &CacheDir{root: root}
}

// DefaultCacheDir returns the cache dir under the OS user cache directory,
// falling back to the temp dir when there is none
func DefaultCacheDir() *CacheDir {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return NewCacheDir(filepath.Join(base, CacheDirName))
}

// Root returns the cache root path
func (c *CacheDir) Root() string {
	return c.root
}

// Reset removes everything in the cache and recreates the root
func (c *CacheDir) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("failed to clear cache %s: %w", c.root, err)
	}
	if err := os.MkdirAll(c.root, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create cache %s: %w", c.root, err)
	}
	return nil
}

// Subdir returns an empty subdirectory named name, removing earlier contents
func (c *CacheDir) Subdir(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.root, filepath.Base(name))
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear cache dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return dir, nil
}

// Remove deletes the cache directory
func (c *CacheDir) Remove() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.root)
}
