package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.nus3audio")
	if err := os.WriteFile(path, []byte("NUS3"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	fw, err := NewFileWatcher(func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Close()
	fw.debounce = 10 * time.Millisecond

	if err := fw.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("NUS3 changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		abs, _ := filepath.Abs(path)
		if got != abs {
			t.Errorf("onChange(%s), expected %s", got, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	if err := fw.Watch(""); err != nil {
		t.Fatalf("Watch(\"\") error = %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
