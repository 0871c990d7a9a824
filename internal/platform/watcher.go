package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of writes from one save
const DefaultWatchDebounce = 500 * time.Millisecond

// FileWatcher reports external changes to a single file. The parent
// directory is watched so editors that replace the file are noticed.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)

	mu       sync.Mutex
	path     string
	paused   bool
	timer    *time.Timer
	done     chan struct{}
	closeOne sync.Once
}

// NewFileWatcher starts a watcher that calls onChange after the watched
// file is written, created, renamed or removed
func NewFileWatcher(onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  w,
		debounce: DefaultWatchDebounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

// Watch replaces the watched file; an empty path stops watching
func (fw *FileWatcher) Watch(path string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.path != "" {
		_ = fw.watcher.Remove(filepath.Dir(fw.path))
	}
	fw.path = ""
	if path == "" {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	fw.path = abs
	return nil
}

// Pause suppresses notifications while the app writes the file itself
func (fw *FileWatcher) Pause() {
	fw.mu.Lock()
	fw.paused = true
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()
}

// Resume re-enables notifications
func (fw *FileWatcher) Resume() {
	fw.mu.Lock()
	fw.paused = false
	fw.mu.Unlock()
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOne.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) loop() {
	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.paused || fw.path == "" || filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	path := fw.path
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		paused, current := fw.paused, fw.path
		fw.mu.Unlock()
		if !paused && current == path && fw.onChange != nil {
			fw.onChange(path)
		}
	})
}
